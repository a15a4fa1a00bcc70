package analyses

import (
	"strconv"
	"time"
)

// Kind names an analysis flow.
type Kind string

const (
	KindResumeAnalyzer Kind = "resume_analyzer"
	KindJDMatcher      Kind = "jd_matcher"
)

// ParseKind validates a kind string.
func ParseKind(raw string) (Kind, bool) {
	switch Kind(raw) {
	case KindResumeAnalyzer, KindJDMatcher:
		return Kind(raw), true
	default:
		return "", false
	}
}

// Score is a 0-100 percentage that always renders with one decimal in JSON.
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(s), 'f', 1, 64)), nil
}

// Record is one persisted analysis. Records are insert-only.
type Record struct {
	ID         string    `json:"id" bson:"_id"`
	Email      string    `json:"email" bson:"email"`
	Kind       Kind      `json:"kind" bson:"kind"`
	Score      Score     `json:"score" bson:"score"`
	TextPrefix string    `json:"textPrefix" bson:"text_prefix"`
	Feedback   string    `json:"feedback" bson:"feedback"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}
