package metrics

import (
	"strings"
	"testing"
)

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var sb strings.Builder
	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected 3 observations, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}
	sb.WriteString(formatFloat(snap.sum))
	if sb.String() != "555" {
		t.Fatalf("expected sum 555, got %s", sb.String())
	}
}

func TestRenderIncludesKindLabels(t *testing.T) {
	IncAnalysisCompleted("jd_matcher")
	IncAnalysisBlocked("resume_analyzer")

	out := Render()
	for _, want := range []string{
		`analysis_completed_total{kind="jd_matcher"}`,
		`analysis_blocked_total{kind="resume_analyzer"}`,
		"# TYPE analysis_duration_ms histogram",
		`analysis_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
