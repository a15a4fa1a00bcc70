package usage

import (
	"context"
	"strings"
	"time"
)

type store interface {
	Get(ctx context.Context, sessionID string) (Quota, error)
	Update(ctx context.Context, sessionID string, fn func(*Quota) error) (Quota, error)
}

// Service gates free-tier runs per session. A run is reserved before scoring and
// committed only once it completes, so two concurrent requests cannot both spend the
// last free run.
type Service struct {
	store  store
	policy Policy
	now    func() time.Time
}

// NewService constructs a Service with an in-memory session store. Sessions idle for
// longer than policy.IdleTTL are forgotten.
func NewService(policy Policy) *Service {
	s := &Service{policy: policy, now: time.Now}
	s.store = newMemoryStore(policy.IdleTTL, func() time.Time { return s.now() })
	return s
}

// Get returns the session's quota; an unknown session reads as an empty quota and is
// not stored.
func (s *Service) Get(ctx context.Context, sessionID string) (Quota, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Quota{}, ErrMissingSession
	}
	return s.store.Get(ctx, sessionID)
}

// View returns the quota with limits and remaining runs.
func (s *Service) View(ctx context.Context, sessionID string) (View, error) {
	q, err := s.Get(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return s.view(q), nil
}

// Active reports whether the session has a subscription in force.
func (s *Service) Active(ctx context.Context, sessionID string) (bool, error) {
	q, err := s.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return q.Active(s.now()), nil
}

// Reserve holds one run of counter c. It returns ErrLimitReached when the session is
// not subscribed and its committed plus pending runs already meet the allowance.
func (s *Service) Reserve(ctx context.Context, sessionID string, c Counter) (Reservation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Reservation{}, ErrMissingSession
	}
	res := Reservation{SessionID: sessionID, Counter: c}
	_, err := s.store.Update(ctx, sessionID, func(q *Quota) error {
		if q.Active(s.now()) {
			return nil
		}
		if q.Used(c)+q.pending(c) >= s.policy.Limit(c) {
			return ErrLimitReached
		}
		q.addPending(c, 1)
		res.Charged = true
		return nil
	})
	if err != nil {
		return Reservation{}, err
	}
	return res, nil
}

// Commit consumes a charged reservation.
func (s *Service) Commit(ctx context.Context, res Reservation) (Quota, error) {
	return s.store.Update(ctx, res.SessionID, func(q *Quota) error {
		if !res.Charged {
			return nil
		}
		q.addPending(res.Counter, -1)
		q.addUsed(res.Counter, 1)
		return nil
	})
}

// Release returns a reservation without consuming it.
func (s *Service) Release(ctx context.Context, res Reservation) error {
	_, err := s.store.Update(ctx, res.SessionID, func(q *Quota) error {
		if res.Charged {
			q.addPending(res.Counter, -1)
		}
		return nil
	})
	return err
}

// Activate marks the session subscribed until expiresAt.
func (s *Service) Activate(ctx context.Context, sessionID string, expiresAt time.Time) (Quota, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Quota{}, ErrMissingSession
	}
	exp := expiresAt.UTC()
	return s.store.Update(ctx, sessionID, func(q *Quota) error {
		q.IsSubscribed = true
		q.SubscriptionExpiresAt = &exp
		return nil
	})
}

func (s *Service) view(q Quota) View {
	return View{
		SessionID:              q.SessionID,
		IsSubscribed:           q.Active(s.now()),
		SubscriptionExpiresAt:  q.SubscriptionExpiresAt,
		FreeResumeChecksUsed:   q.FreeResumeChecksUsed,
		FreeResumeChecksLimit:  s.policy.FreeResumeChecks,
		FreeResumeChecksRemain: max(0, s.policy.FreeResumeChecks-q.FreeResumeChecksUsed),
		FreeJDChecksUsed:       q.FreeJDChecksUsed,
		FreeJDChecksLimit:      s.policy.FreeJDChecks,
		FreeJDChecksRemain:     max(0, s.policy.FreeJDChecks-q.FreeJDChecksUsed),
	}
}
