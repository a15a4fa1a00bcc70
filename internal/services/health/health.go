// Package health reports liveness of the process and its backing store.
package health

import (
	"context"
	"time"
)

// Pinger checks a dependency. *sql.DB satisfies it directly.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Service encapsulates health-related checks.
type Service struct {
	Store   string
	Checker Pinger
	Timeout time.Duration
}

// NewService constructs a health service for the named store. checker may be nil for
// the in-memory backend.
func NewService(store string, checker Pinger) *Service {
	return &Service{Store: store, Checker: checker, Timeout: 2 * time.Second}
}

// Status is the health payload.
type Status struct {
	OK    bool   `json:"ok"`
	Store string `json:"store"`
	Error string `json:"error,omitempty"`
}

// Status pings the store when one is configured.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Store: s.Store}
	if s.Checker == nil {
		return st
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if err := s.Checker.PingContext(ctx); err != nil {
		st.OK = false
		st.Error = "store unreachable"
	}
	return st
}
