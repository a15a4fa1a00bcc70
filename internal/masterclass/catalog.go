// Package masterclass serves the course catalog and career questions.
package masterclass

// Course is one catalog entry.
type Course struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Mentor   string `json:"mentor"`
	VideoURL string `json:"videoUrl"`
}

// Catalog returns the fixed course list in display order.
func Catalog() []Course {
	return []Course{
		{ID: "data-analyst-first-job", Title: "Crack Your First Data Analyst Job", Mentor: "Deloitte Expert", VideoURL: "https://youtu.be/example1"},
		{ID: "ats-friendly-resume", Title: "How to Build ATS-Friendly Resume", Mentor: "Google Recruiter", VideoURL: "https://youtu.be/example2"},
		{ID: "technical-interviews", Title: "Ace Your Technical Interviews", Mentor: "Microsoft Engineer", VideoURL: "https://youtu.be/example3"},
	}
}
