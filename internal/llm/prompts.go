package llm

import (
	_ "embed"
	"strconv"
	"strings"
)

var (
	//go:embed prompts/resume_feedback.txt
	resumeFeedbackTemplate string
	//go:embed prompts/match_coaching.txt
	matchCoachingTemplate string
	//go:embed prompts/career_question.txt
	careerQuestionTemplate string
)

// MaxPromptInputRunes bounds each text inserted into a prompt.
const MaxPromptInputRunes = 12000

// ResumeFeedbackPrompt asks for ATS feedback on a resume.
func ResumeFeedbackPrompt(resumeText string, missingSkills []string) string {
	note := ""
	if len(missingSkills) > 0 {
		note = "The target role also expects: " + strings.Join(missingSkills, ", ") + ".\n"
	}
	return fill(resumeFeedbackTemplate, map[string]string{
		"SKILLS_NOTE": note,
		"RESUME":      truncate(resumeText),
	})
}

// MatchCoachingPrompt asks for advice on closing the gaps between a resume and a job
// description.
func MatchCoachingPrompt(resumeText, jdText string, score float64, missingSkills, missingTerms []string) string {
	return fill(matchCoachingTemplate, map[string]string{
		"SCORE":          strconv.FormatFloat(score, 'f', 1, 64),
		"MISSING_SKILLS": listOrNone(missingSkills),
		"MISSING_TERMS":  listOrNone(missingTerms),
		"JD":             truncate(jdText),
		"RESUME":         truncate(resumeText),
	})
}

// CareerQuestionPrompt wraps a free-form career question.
func CareerQuestionPrompt(question string) string {
	return fill(careerQuestionTemplate, map[string]string{
		"QUESTION": truncate(question),
	})
}

func fill(template string, values map[string]string) string {
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(template))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= MaxPromptInputRunes {
		return s
	}
	return string(runes[:MaxPromptInputRunes])
}
