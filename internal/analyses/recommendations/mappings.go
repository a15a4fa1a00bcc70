package recommendations

import (
	"strings"
)

// maxSkillRecommendations is how many missing skills get their own entry; the rest
// are folded into one.
const maxSkillRecommendations = 4

const maxCommonSkills = 6

func fromScore(score float64) []Recommendation {
	switch {
	case score < 50:
		return []Recommendation{
			{
				ID:       "ATS_LOW_MATCH",
				Category: "ATS",
				Severity: "critical",
				Title:    "Tailor your resume to the role",
				Why:      "A low match score means most ATS filters will rank this resume below other applicants.",
				Action:   "Rewrite your summary and most recent role to mirror the responsibilities and skills the job asks for.",
				Impact:   "high",
			},
		}
	case score < 75:
		return []Recommendation{
			{
				ID:       "ATS_MODERATE_MATCH",
				Category: "ATS",
				Severity: "warning",
				Title:    "Close the remaining gaps",
				Why:      "You match a good part of the role; a few targeted edits can move you into the strong band.",
				Action:   "Work through the missing skills and terms below, adding the ones you genuinely have.",
				Impact:   "medium",
			},
		}
	default:
		return nil
	}
}

// fromCommonSkills suggests a few vocabulary skills the resume lacks. It stays quiet
// when the resume lists no skills, since fromSkillCoverage already covers that.
func fromCommonSkills(resumeSkills, missing []string) []Recommendation {
	if len(resumeSkills) == 0 {
		return nil
	}
	skills := make([]string, 0, maxCommonSkills)
	seen := make(map[string]bool, maxCommonSkills)
	for _, s := range missing {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		skills = append(skills, s)
		if len(skills) == maxCommonSkills {
			break
		}
	}
	if len(skills) == 0 {
		return nil
	}
	return []Recommendation{
		{
			ID:       "SKILLS_COMMON_GAPS",
			Category: "SKILLS",
			Severity: "info",
			Title:    "Check for skills you may have left out",
			Why:      "Recruiters often search for widely used tools by name, and these were not found in your resume.",
			Action:   "If you have worked with any of these, list them under Skills: " + strings.Join(skills, ", "),
			Impact:   "low",
		},
	}
}

func fromSkillCoverage(resumeSkills []string) []Recommendation {
	if len(resumeSkills) > 0 {
		return nil
	}
	return []Recommendation{
		{
			ID:       "STRUCTURE_SKILLS_SECTION",
			Category: "STRUCTURE",
			Severity: "critical",
			Title:    "Add a dedicated Skills section",
			Why:      "No recognizable skills were found, so keyword-based screening has nothing to match.",
			Action:   "Add a Skills section listing tools, languages and platforms by their standard names.",
			Impact:   "high",
		},
	}
}

func fromMissingSkills(missing []string) []Recommendation {
	skills := make([]string, 0, len(missing))
	seen := make(map[string]bool, len(missing))
	for _, s := range missing {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		skills = append(skills, s)
	}
	if len(skills) == 0 {
		return nil
	}

	head := skills
	var rest []string
	if len(skills) > maxSkillRecommendations {
		head, rest = skills[:maxSkillRecommendations], skills[maxSkillRecommendations:]
	}
	out := make([]Recommendation, 0, len(head)+1)
	for _, skill := range head {
		out = append(out, Recommendation{
			ID:       "SKILL_" + slugify(skill),
			Category: "SKILLS",
			Severity: "warning",
			Title:    "Show evidence of " + skill,
			Why:      "The job description asks for " + skill + " and the resume does not mention it.",
			Action:   "If you have used " + skill + ", list it under Skills and add a bullet showing where you applied it.",
			Impact:   "high",
		})
	}
	if len(rest) > 0 {
		out = append(out, Recommendation{
			ID:       "SKILLS_REMAINING",
			Category: "SKILLS",
			Severity: "info",
			Title:    "Cover the remaining required skills",
			Why:      "Each additional matched skill raises the overlap part of the score.",
			Action:   "Consider adding: " + strings.Join(rest, ", "),
			Impact:   "medium",
		})
	}
	return out
}

func fromMissingTerms(t []string) []Recommendation {
	terms := uniqueSortedStrings(t)
	if len(terms) == 0 {
		return nil
	}
	return []Recommendation{
		{
			ID:       "ATS_MISSING_JD_TERMS",
			Category: "ATS",
			Severity: "warning",
			Title:    "Use the job description's wording",
			Why:      "ATS ranking rewards resumes that reuse the exact phrases recruiters searched for.",
			Action:   "Work these phrases naturally into your summary and experience bullets: " + strings.Join(terms, ", "),
			Impact:   "medium",
		},
	}
}
