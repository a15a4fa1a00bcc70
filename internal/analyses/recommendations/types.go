package recommendations

// Recommendation represents a deterministic suggestion derived from a match result.
type Recommendation struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Why      string `json:"why"`
	Action   string `json:"action"`
	Impact   string `json:"impact"`
	Order    int    `json:"order"`
}

// Input is the match data needed for recommendation generation.
type Input struct {
	Score             float64
	HasJobDescription bool
	ResumeSkills      []string
	MissingSkills     []string
	MissingTerms      []string
}
