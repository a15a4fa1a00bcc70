package subscriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/shared/util"
	"resume-matcher/internal/usage"
)

var (
	ErrInvalidEmail   = errors.New("a valid email is required")
	ErrNameRequired   = errors.New("name is required")
	ErrOrderExpired   = errors.New("order has expired")
	ErrSessionMissing = errors.New("session id is required")
)

// Activator turns on a session's subscription.
type Activator interface {
	Activate(ctx context.Context, sessionID string, expiresAt time.Time) (usage.Quota, error)
}

// Service creates orders and activates sessions once payment is confirmed.
type Service struct {
	Repo  Repo
	Quota Activator
	Plan  Plan
	now   func() time.Time
}

func NewService(repo Repo, quota Activator, plan Plan) *Service {
	return &Service{Repo: repo, Quota: quota, Plan: plan, now: time.Now}
}

// OrderRequest is the buyer's contact details.
type OrderRequest struct {
	Email string `json:"email" form:"email"`
	Name  string `json:"name" form:"name"`
	Phone string `json:"phone" form:"phone"`
}

// CreateOrder records a pending order carrying the plan's payment link.
func (s *Service) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	email := util.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	switch {
	case !util.ValidEmail(email):
		return Order{}, ErrInvalidEmail
	case name == "":
		return Order{}, ErrNameRequired
	}
	order := Order{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        name,
		Phone:       strings.TrimSpace(req.Phone),
		Plan:        s.Plan.Name,
		AmountMinor: s.Plan.AmountMinor,
		Currency:    s.Plan.Currency,
		Status:      StatusPending,
		PaymentLink: s.Plan.PaymentLink,
		CreatedAt:   s.now().UTC(),
	}
	id, err := s.Repo.CreatePending(ctx, order)
	if err != nil {
		return Order{}, err
	}
	order.ID = id
	metrics.IncOrderCreated()
	telemetry.Info("subscription.order_created", map[string]any{
		"order_id":     order.ID,
		"email_hash":   util.HashKey(email),
		"amount_minor": order.AmountMinor,
		"currency":     order.Currency,
	})
	return order, nil
}

// Confirm completes the order and activates sessionID until the order expires.
// Confirming a completed order again re-activates the caller's session while the
// order is still in force.
func (s *Service) Confirm(ctx context.Context, id, sessionID string) (Order, usage.Quota, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Order{}, usage.Quota{}, ErrSessionMissing
	}
	order, err := s.Repo.Find(ctx, id)
	if err != nil {
		return Order{}, usage.Quota{}, err
	}
	now := s.now().UTC()
	if order.Status != StatusCompleted {
		expiresAt := now.AddDate(0, 0, s.planDays())
		if err := s.Repo.MarkCompleted(ctx, id, now, expiresAt); err != nil {
			return Order{}, usage.Quota{}, err
		}
		order.Status = StatusCompleted
		order.CompletedAt = &now
		order.ExpiresAt = &expiresAt
		metrics.IncOrderCompleted()
	}
	if order.ExpiresAt == nil || !now.Before(*order.ExpiresAt) {
		return order, usage.Quota{}, ErrOrderExpired
	}
	quota, err := s.Quota.Activate(ctx, sessionID, *order.ExpiresAt)
	if err != nil {
		return order, usage.Quota{}, err
	}
	telemetry.Info("subscription.activated", map[string]any{
		"order_id":   order.ID,
		"session_id": sessionID,
		"expires_at": order.ExpiresAt.Format(time.RFC3339),
	})
	return order, quota, nil
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.Repo.Find(ctx, id)
}

func (s *Service) planDays() int {
	if s.Plan.Days <= 0 {
		return DefaultPlan().Days
	}
	return s.Plan.Days
}
