package masterclass

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"resume-matcher/internal/llm"
	"resume-matcher/internal/shared/metrics"
)

// MaxQuestionRunes bounds a career question.
const MaxQuestionRunes = 2000

var (
	ErrQuestionRequired = errors.New("question is required")
	ErrQuestionTooLong  = errors.New("question is too long")
)

// InsightGenerator produces free-text answers.
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string) llm.Insight
}

type Service struct {
	Insights InsightGenerator
}

func NewService(insights InsightGenerator) *Service {
	return &Service{Insights: insights}
}

// Courses returns the catalog.
func (s *Service) Courses() []Course {
	return Catalog()
}

// Ask answers a career question. Generator failures come back as a failed Insight.
func (s *Service) Ask(ctx context.Context, question string) (llm.Insight, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return llm.Insight{}, ErrQuestionRequired
	}
	if utf8.RuneCountInString(question) > MaxQuestionRunes {
		return llm.Insight{}, ErrQuestionTooLong
	}
	insight := s.Insights.Generate(ctx, llm.CareerQuestionPrompt(question))
	if !insight.OK {
		metrics.IncInsightFailed()
	}
	return insight, nil
}
