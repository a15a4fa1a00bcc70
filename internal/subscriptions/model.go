package subscriptions

import "time"

// Order statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Plan is the single paid tier.
type Plan struct {
	Name        string `json:"name"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`
	Days        int    `json:"days"`
	PaymentLink string `json:"paymentLink"`
}

// DefaultPlan is ₹199 for 30 days.
func DefaultPlan() Plan {
	return Plan{
		Name:        "monthly",
		AmountMinor: 19900,
		Currency:    "INR",
		Days:        30,
		PaymentLink: "https://your-payment-gateway.com/pay?amount=199",
	}
}

// Order is a subscription purchase. Payment is confirmed manually.
type Order struct {
	ID          string     `json:"id" bson:"_id"`
	Email       string     `json:"email" bson:"email"`
	Name        string     `json:"name" bson:"name"`
	Phone       string     `json:"phone" bson:"phone"`
	Plan        string     `json:"plan" bson:"plan"`
	AmountMinor int64      `json:"amountMinor" bson:"amount_minor"`
	Currency    string     `json:"currency" bson:"currency"`
	Status      string     `json:"status" bson:"status"`
	PaymentLink string     `json:"paymentLink" bson:"payment_link"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty" bson:"expires_at,omitempty"`
}
