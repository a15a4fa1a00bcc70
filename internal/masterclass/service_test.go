package masterclass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/llm"
)

type fakeInsights struct {
	insight llm.Insight
	prompts []string
}

func (f *fakeInsights) Generate(ctx context.Context, prompt string) llm.Insight {
	f.prompts = append(f.prompts, prompt)
	return f.insight
}

func TestCatalogHasThreeCourses(t *testing.T) {
	courses := NewService(&fakeInsights{}).Courses()
	if len(courses) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(courses))
	}
	if courses[1].Title != "How to Build ATS-Friendly Resume" || courses[1].Mentor != "Google Recruiter" {
		t.Fatalf("unexpected course %+v", courses[1])
	}
}

func TestAsk(t *testing.T) {
	fake := &fakeInsights{insight: llm.Insight{OK: true, Text: "Learn SQL first."}}
	svc := NewService(fake)

	got, err := svc.Ask(context.Background(), "  How do I become a data analyst? ")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !got.OK || got.Text != "Learn SQL first." {
		t.Fatalf("unexpected insight %+v", got)
	}
	if len(fake.prompts) != 1 || !strings.Contains(fake.prompts[0], "How do I become a data analyst?") {
		t.Fatalf("unexpected prompts %v", fake.prompts)
	}

	if _, err := svc.Ask(context.Background(), " "); !errors.Is(err, ErrQuestionRequired) {
		t.Fatalf("expected ErrQuestionRequired, got %v", err)
	}
	if _, err := svc.Ask(context.Background(), strings.Repeat("x", MaxQuestionRunes+1)); !errors.Is(err, ErrQuestionTooLong) {
		t.Fatalf("expected ErrQuestionTooLong, got %v", err)
	}
	if len(fake.prompts) != 1 {
		t.Fatalf("invalid questions must not reach the generator")
	}
}

func TestAskHandlerDegradesOnInsightFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeInsights{insight: llm.Insight{OK: false, Reason: llm.UnavailableReason}}
	r := gin.New()
	NewHandler(NewService(fake)).RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/masterclasses/ask", strings.NewReader(`{"question":"Should I learn Go?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":false`) {
		t.Fatalf("expected failed insight, got %s", rec.Body.String())
	}
}
