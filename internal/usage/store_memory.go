package usage

import (
	"context"
	"sync"
	"time"
)

// DefaultIdleTTL is how long an untouched session is kept.
const DefaultIdleTTL = 24 * time.Hour

type sessionEntry struct {
	mu      sync.Mutex
	quota   Quota
	touched time.Time
	removed bool
}

// evictable reports whether the entry can be dropped at now. Sessions holding a
// reservation or an active subscription are kept regardless of age.
func (e *sessionEntry) evictable(now time.Time, ttl time.Duration) bool {
	if now.Sub(e.touched) < ttl {
		return false
	}
	if e.quota.pendingResume > 0 || e.quota.pendingJD > 0 {
		return false
	}
	return !e.quota.Active(now)
}

// memoryStore keeps quotas only for sessions that wrote something. Reads of unknown
// sessions return an empty Quota without allocating, and idle sessions are swept on
// writes at most once per sweep interval.
type memoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newMemoryStore(ttl time.Duration, now func() time.Time) *memoryStore {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	if now == nil {
		now = time.Now
	}
	return &memoryStore{sessions: make(map[string]*sessionEntry), ttl: ttl, now: now}
}

func (s *memoryStore) sweepInterval() time.Duration {
	return max(s.ttl/4, time.Second)
}

func (s *memoryStore) lookup(sessionID string) (*sessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[sessionID]
	return e, ok
}

func (s *memoryStore) entry(sessionID string) *sessionEntry {
	if e, ok := s.lookup(sessionID); ok {
		return e
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sessionID]; ok {
		return e
	}
	e := &sessionEntry{quota: Quota{SessionID: sessionID}, touched: s.now()}
	s.sessions[sessionID] = e
	return e
}

func (s *memoryStore) Get(ctx context.Context, sessionID string) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	e, ok := s.lookup(sessionID)
	if !ok {
		return Quota{SessionID: sessionID}, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quota, nil
}

// Update runs fn under the session's lock; the change is kept only if fn succeeds.
func (s *memoryStore) Update(ctx context.Context, sessionID string, fn func(*Quota) error) (Quota, error) {
	if err := ctx.Err(); err != nil {
		return Quota{}, err
	}
	s.maybeSweep()
	for {
		e := s.entry(sessionID)
		e.mu.Lock()
		if e.removed {
			// Swept between lookup and lock; take the fresh entry.
			e.mu.Unlock()
			continue
		}
		q := e.quota
		if err := fn(&q); err != nil {
			current := e.quota
			e.mu.Unlock()
			return current, err
		}
		e.quota = q
		e.touched = s.now()
		e.mu.Unlock()
		return q, nil
	}
}

func (s *memoryStore) maybeSweep() {
	now := s.now()
	s.mu.RLock()
	due := now.Sub(s.lastSweep) >= s.sweepInterval()
	s.mu.RUnlock()
	if due {
		s.sweep(now)
	}
}

// sweep drops idle sessions and returns how many were removed. Entries busy in an
// Update are skipped until the next sweep.
func (s *memoryStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSweep = now
	removed := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.evictable(now, s.ttl) {
			e.removed = true
			delete(s.sessions, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

func (s *memoryStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
