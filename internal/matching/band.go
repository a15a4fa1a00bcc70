package matching

// Score bands.
const (
	BandStrong   = "strong"
	BandModerate = "moderate"
	BandWeak     = "weak"
)

// Band classifies a 0-100 score.
func Band(score float64) string {
	switch {
	case score >= 75:
		return BandStrong
	case score >= 50:
		return BandModerate
	default:
		return BandWeak
	}
}
