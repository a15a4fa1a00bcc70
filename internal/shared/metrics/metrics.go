package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisStarted   = newLabeledCounter()
	analysisCompleted = newLabeledCounter()
	analysisBlocked   = newLabeledCounter()
	analysisRejected  = newLabeledCounter()

	insightFailedTotal   atomic.Uint64
	persistFailedTotal   atomic.Uint64
	ordersCreatedTotal   atomic.Uint64
	ordersCompletedTotal atomic.Uint64

	analysisDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
)

// IncAnalysisStarted increments the started counter for a flow kind.
func IncAnalysisStarted(kind string) { analysisStarted.Inc(kind) }

// IncAnalysisCompleted increments the completed counter for a flow kind.
func IncAnalysisCompleted(kind string) { analysisCompleted.Inc(kind) }

// IncAnalysisBlocked counts runs stopped by the free-tier quota.
func IncAnalysisBlocked(kind string) { analysisBlocked.Inc(kind) }

// IncAnalysisRejected counts runs rejected before scoring (bad input, empty extraction).
func IncAnalysisRejected(kind string) { analysisRejected.Inc(kind) }

// IncInsightFailed increments the insight failure counter.
func IncInsightFailed() { insightFailedTotal.Add(1) }

// IncPersistFailed increments the history persistence failure counter.
func IncPersistFailed() { persistFailedTotal.Add(1) }

// IncOrderCreated increments the pending order counter.
func IncOrderCreated() { ordersCreatedTotal.Add(1) }

// IncOrderCompleted increments the completed order counter.
func IncOrderCompleted() { ordersCompletedTotal.Add(1) }

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeLabeledCounter(&buf, "analysis_started_total", "Total analyses started", "kind", analysisStarted.Snapshot())
	writeLabeledCounter(&buf, "analysis_completed_total", "Total analyses completed", "kind", analysisCompleted.Snapshot())
	writeLabeledCounter(&buf, "analysis_blocked_total", "Total analyses blocked by quota", "kind", analysisBlocked.Snapshot())
	writeLabeledCounter(&buf, "analysis_rejected_total", "Total analyses rejected before scoring", "kind", analysisRejected.Snapshot())
	writeCounter(&buf, "insight_failed_total", "Total insight generation failures", insightFailedTotal.Load())
	writeCounter(&buf, "history_persist_failed_total", "Total history persistence failures", persistFailedTotal.Load())
	writeCounter(&buf, "orders_created_total", "Total subscription orders created", ordersCreatedTotal.Load())
	writeCounter(&buf, "orders_completed_total", "Total subscription orders completed", ordersCompletedTotal.Load())
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds", analysisDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(label string) {
	l.mu.Lock()
	l.values[label]++
	l.mu.Unlock()
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value into the first bucket whose bound holds it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
