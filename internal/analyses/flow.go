package analyses

import (
	"sync"
	"time"
)

// State is a step of an analysis flow.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingUpload   State = "awaiting_upload"
	StateExtracted        State = "extracted"
	StateQuotaCheck       State = "quota_check"
	StateScoring          State = "scoring"
	StateInsightRequested State = "insight_requested"
	StateCompleted        State = "completed"
	StateBlocked          State = "blocked"
)

// DefaultFlowTTL is how long a flow state is kept after its last change.
const DefaultFlowTTL = 24 * time.Hour

type flowEntry struct {
	state   State
	touched time.Time
}

// Flows tracks the current state per session and kind. Idle flows are not stored and
// other states are dropped once untouched for longer than the TTL.
type Flows struct {
	mu        sync.Mutex
	states    map[string]flowEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewFlows returns a tracker that forgets flows untouched for ttl, DefaultFlowTTL when
// ttl is not positive.
func NewFlows(ttl time.Duration) *Flows {
	if ttl <= 0 {
		ttl = DefaultFlowTTL
	}
	return &Flows{states: make(map[string]flowEntry), ttl: ttl, now: time.Now}
}

func flowKey(sessionID string, kind Kind) string {
	return sessionID + "|" + string(kind)
}

// State returns the flow state, idle when the session never ran kind or the flow expired.
func (f *Flows) State(sessionID string, kind Kind) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.states[flowKey(sessionID, kind)]; ok && f.now().Sub(e.touched) < f.ttl {
		return e.state
	}
	return StateIdle
}

func (f *Flows) set(sessionID string, kind Kind, st State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	if st == StateIdle {
		delete(f.states, flowKey(sessionID, kind))
	} else {
		f.states[flowKey(sessionID, kind)] = flowEntry{state: st, touched: now}
	}
	if now.Sub(f.lastSweep) >= max(f.ttl/4, time.Second) {
		f.sweepLocked(now)
	}
}

func (f *Flows) sweepLocked(now time.Time) {
	f.lastSweep = now
	for key, e := range f.states {
		if now.Sub(e.touched) >= f.ttl {
			delete(f.states, key)
		}
	}
}

func (f *Flows) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.states)
}

// Unblock moves every blocked flow of the session back to idle. Called after a
// subscription is activated.
func (f *Flows) Unblock(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, kind := range []Kind{KindResumeAnalyzer, KindJDMatcher} {
		key := flowKey(sessionID, kind)
		if e, ok := f.states[key]; ok && e.state == StateBlocked {
			delete(f.states, key)
		}
	}
}
