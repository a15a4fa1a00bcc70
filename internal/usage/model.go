package usage

import "time"

// Counter names a free-tier allowance.
type Counter string

const (
	CounterResume Counter = "resume"
	CounterJD     Counter = "jd"
)

// Quota is the per-session entitlement state.
type Quota struct {
	SessionID             string     `json:"sessionId"`
	FreeResumeChecksUsed  int        `json:"freeResumeChecksUsed"`
	FreeJDChecksUsed      int        `json:"freeJdChecksUsed"`
	IsSubscribed          bool       `json:"isSubscribed"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`

	pendingResume int
	pendingJD     int
}

// Active reports whether the subscription is in force at now.
func (q Quota) Active(now time.Time) bool {
	return q.IsSubscribed && q.SubscriptionExpiresAt != nil && now.Before(*q.SubscriptionExpiresAt)
}

// Used returns the committed runs for c.
func (q Quota) Used(c Counter) int {
	if c == CounterJD {
		return q.FreeJDChecksUsed
	}
	return q.FreeResumeChecksUsed
}

func (q Quota) pending(c Counter) int {
	if c == CounterJD {
		return q.pendingJD
	}
	return q.pendingResume
}

func (q *Quota) addPending(c Counter, n int) {
	if c == CounterJD {
		q.pendingJD = max(0, q.pendingJD+n)
		return
	}
	q.pendingResume = max(0, q.pendingResume+n)
}

func (q *Quota) addUsed(c Counter, n int) {
	if c == CounterJD {
		q.FreeJDChecksUsed += n
		return
	}
	q.FreeResumeChecksUsed += n
}

// Policy holds the free-tier allowances.
type Policy struct {
	FreeResumeChecks int
	FreeJDChecks     int
	// IdleTTL defaults to DefaultIdleTTL.
	IdleTTL time.Duration
}

// Limit returns the free allowance for c.
func (p Policy) Limit(c Counter) int {
	if c == CounterJD {
		return p.FreeJDChecks
	}
	return p.FreeResumeChecks
}

// Reservation is a held slot that must be committed or released.
type Reservation struct {
	SessionID string
	Counter   Counter
	// Charged is false when an active subscription covers the run.
	Charged bool
}

// View is the quota as reported to clients.
type View struct {
	SessionID              string     `json:"sessionId"`
	IsSubscribed           bool       `json:"isSubscribed"`
	SubscriptionExpiresAt  *time.Time `json:"subscriptionExpiresAt,omitempty"`
	FreeResumeChecksUsed   int        `json:"freeResumeChecksUsed"`
	FreeResumeChecksLimit  int        `json:"freeResumeChecksLimit"`
	FreeResumeChecksRemain int        `json:"freeResumeChecksRemaining"`
	FreeJDChecksUsed       int        `json:"freeJdChecksUsed"`
	FreeJDChecksLimit      int        `json:"freeJdChecksLimit"`
	FreeJDChecksRemain     int        `json:"freeJdChecksRemaining"`
}
