package analyses

import (
	"resume-matcher/internal/analyses/recommendations"
	"resume-matcher/internal/matching"
)

// Recommendation is an alias of the recommendations module type.
type Recommendation = recommendations.Recommendation

func buildRecommendations(result matching.MatchResult, hasJD bool) []Recommendation {
	recs := recommendations.GenerateRecommendations(recommendations.Input{
		Score:             result.BlendedScorePercent,
		HasJobDescription: hasJD,
		ResumeSkills:      result.ResumeSkills,
		MissingSkills:     result.MissingSkills,
		MissingTerms:      result.MissingTerms,
	})
	if recs == nil {
		return []Recommendation{}
	}
	return recs
}
