package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"resume-matcher/internal/llm"
	"resume-matcher/internal/matching"
	"resume-matcher/internal/skills"
	"resume-matcher/internal/usage"
)

type countingStrategy struct {
	mu    sync.Mutex
	calls int
	score float64
}

func (s *countingStrategy) Name() string { return matching.StrategyBlended }

func (s *countingStrategy) Score(resumeText, jdText string) matching.MatchResult {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return matching.MatchResult{
		Strategy:            matching.StrategyBlended,
		BlendedScorePercent: s.score,
		ResumeSkills:        []string{},
		JDSkills:            []string{},
		MissingSkills:       []string{},
		TopTerms:            []string{},
		PresentTerms:        []string{},
		MissingTerms:        []string{},
	}
}

type countingInsights struct {
	calls   int
	prompts []string
	result  llm.Insight
}

func (g *countingInsights) Generate(ctx context.Context, prompt string) llm.Insight {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.result
}

type failingRepo struct{}

func (failingRepo) Insert(ctx context.Context, record Record) error { return errors.New("disk full") }
func (failingRepo) CountByUser(ctx context.Context, kind Kind, email string) (int, error) {
	return 0, errors.New("disk full")
}
func (failingRepo) ListRecentByUser(ctx context.Context, kind Kind, email string, limit int) ([]Record, error) {
	return nil, errors.New("disk full")
}

type fixture struct {
	svc      *Service
	quota    *usage.Service
	strategy *countingStrategy
	insights *countingInsights
	repo     *MemoryRepo
}

func newFixture() fixture {
	quota := usage.NewService(usage.Policy{FreeResumeChecks: 1, FreeJDChecks: 1})
	strategy := &countingStrategy{score: 62.5}
	insights := &countingInsights{result: llm.Insight{OK: true, Text: "Add metrics to your bullets."}}
	repo := NewMemoryRepo()
	svc := NewService(repo, quota, matching.NewSet(strategy), skills.DefaultVocabulary(), insights)
	return fixture{svc: svc, quota: quota, strategy: strategy, insights: insights, repo: repo}
}

func resumeRequest(session string) Request {
	return Request{
		SessionID: session,
		Email:     "Jane@Example.com",
		Kind:      KindResumeAnalyzer,
		FileName:  "resume.txt",
		Data:      []byte("Python developer with SQL and Docker experience"),
	}
}

func TestRunCompletesAndChargesOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.svc.Run(ctx, resumeRequest("s1"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateCompleted || !out.Saved || out.Notice != "" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Score != 62.5 || out.Band != "" {
		t.Fatalf("unexpected score %v band %s", out.Score, out.Band)
	}
	if !out.Insight.OK || out.Insight.Text == "" {
		t.Fatalf("expected insight, got %+v", out.Insight)
	}

	v, err := f.quota.View(ctx, "s1")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if v.FreeResumeChecksUsed != 1 || v.FreeJDChecksUsed != 0 {
		t.Fatalf("unexpected usage %+v", v)
	}

	records, total, err := f.svc.History(ctx, KindResumeAnalyzer, "jane@example.com", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 1 || len(records) != 1 || records[0].ID != out.ID || records[0].Feedback != out.Insight.Text {
		t.Fatalf("unexpected history %d %+v", total, records)
	}
}

func TestRunSecondUnsubscribedAttemptIsBlocked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Run(ctx, resumeRequest("s1")); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	out, err := f.svc.Run(ctx, resumeRequest("s1"))
	if !errors.Is(err, usage.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	if out.State != StateBlocked || f.svc.State("s1", KindResumeAnalyzer) != StateBlocked {
		t.Fatalf("expected blocked state, got %s", out.State)
	}
	if f.strategy.calls != 1 || f.insights.calls != 1 {
		t.Fatalf("blocked run reached scoring: strategy=%d insight=%d", f.strategy.calls, f.insights.calls)
	}

	// An empty upload does not move a blocked flow.
	req := resumeRequest("s1")
	req.Data = nil
	if _, err := f.svc.Run(ctx, req); !errors.Is(err, usage.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached while blocked, got %v", err)
	}
	if f.svc.State("s1", KindResumeAnalyzer) != StateBlocked {
		t.Fatalf("blocked flow left without activation")
	}

	// The JD counter is separate.
	jd := resumeRequest("s1")
	jd.Kind = KindJDMatcher
	jd.JobDescription = "Looking for Python and AWS"
	if _, err := f.svc.Run(ctx, jd); err != nil {
		t.Fatalf("jd Run: %v", err)
	}
}

func TestRunBlockedFlowResumesAfterActivation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _ = f.svc.Run(ctx, resumeRequest("s1"))
	if _, err := f.svc.Run(ctx, resumeRequest("s1")); !errors.Is(err, usage.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	if _, err := f.quota.Activate(ctx, "s1", time.Now().Add(30*24*time.Hour)); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	for i := 0; i < 3; i++ {
		out, err := f.svc.Run(ctx, resumeRequest("s1"))
		if err != nil {
			t.Fatalf("subscribed Run %d: %v", i, err)
		}
		if out.State != StateCompleted {
			t.Fatalf("unexpected state %s", out.State)
		}
	}
	v, _ := f.quota.View(ctx, "s1")
	if v.FreeResumeChecksUsed != 1 {
		t.Fatalf("subscribed runs must not be charged, used=%d", v.FreeResumeChecksUsed)
	}
}

func TestRunEmptyResumeRejectedBeforeScoring(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := resumeRequest("s1")
	req.Data = []byte("   \n\t ")
	out, err := f.svc.Run(ctx, req)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if out.State != StateAwaitingUpload || f.svc.State("s1", KindResumeAnalyzer) != StateAwaitingUpload {
		t.Fatalf("expected awaiting_upload, got %s", out.State)
	}
	if f.strategy.calls != 0 || f.insights.calls != 0 {
		t.Fatalf("rejected run reached scoring")
	}
	v, _ := f.quota.View(ctx, "s1")
	if v.FreeResumeChecksUsed != 0 {
		t.Fatalf("quota touched on extraction failure: %+v", v)
	}
}

func TestRunValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		edit func(*Request)
		want error
	}{
		{"missing session", func(r *Request) { r.SessionID = "" }, ErrSessionRequired},
		{"bad email", func(r *Request) { r.Email = "nope" }, ErrInvalidEmail},
		{"unknown strategy", func(r *Request) { r.Strategy = "semantic" }, ErrUnknownStrategy},
		{"bad kind", func(r *Request) { r.Kind = "cover_letter" }, ErrInvalidKind},
		{"jd required", func(r *Request) { r.Kind = KindJDMatcher; r.JobDescription = "  " }, ErrJobDescriptionRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := resumeRequest("s1")
			tc.edit(&req)
			if _, err := f.svc.Run(ctx, req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if f.strategy.calls != 0 {
		t.Fatalf("validation failures reached scoring")
	}
}

func TestRunPersistFailureDegrades(t *testing.T) {
	f := newFixture()
	f.svc.Repo = failingRepo{}
	ctx := context.Background()

	out, err := f.svc.Run(ctx, resumeRequest("s1"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Saved || out.Notice != MessageNotSaved {
		t.Fatalf("expected unsaved notice, got %+v", out)
	}
	if out.Score != 62.5 || out.State != StateCompleted {
		t.Fatalf("score must survive persistence failure: %+v", out)
	}
	v, _ := f.quota.View(ctx, "s1")
	if v.FreeResumeChecksUsed != 1 {
		t.Fatalf("completed run must be charged, used=%d", v.FreeResumeChecksUsed)
	}
}

func TestRunInsightFailureStillScores(t *testing.T) {
	f := newFixture()
	f.svc.Insights = llm.NewGenerator(llm.PlaceholderClient{}, time.Second, "none")

	out, err := f.svc.Run(context.Background(), resumeRequest("s1"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Insight.OK || out.Insight.Reason != llm.UnavailableReason {
		t.Fatalf("expected failed insight, got %+v", out.Insight)
	}
	if out.Score != 62.5 || !out.Saved {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestRunJDMatcherScenario(t *testing.T) {
	vocab := skills.NewVocabulary([]string{"Python", "SQL", "AWS", "Docker"})
	extractor := skills.Extractor{Vocabulary: vocab, Mode: skills.ModeSubstring}
	strategies := matching.NewSet(
		matching.BlendedSkillsStrategy{Skills: extractor, SkillWeight: matching.DefaultSkillWeight},
		matching.PlainLexicalStrategy{},
	)
	insights := &countingInsights{result: llm.Insight{OK: true, Text: "Mention AWS."}}
	quota := usage.NewService(usage.Policy{FreeResumeChecks: 1, FreeJDChecks: 1})
	svc := NewService(NewMemoryRepo(), quota, strategies, vocab, insights)

	out, err := svc.Run(context.Background(), Request{
		SessionID:      "s1",
		Email:          "jane@example.com",
		Kind:           KindJDMatcher,
		FileName:       "resume.txt",
		Data:           []byte("Backend engineer: Python, SQL, Docker."),
		JobDescription: "We need Python, SQL, AWS and Docker skills.",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Match.SkillsOverlapRatio != 0.75 {
		t.Fatalf("expected overlap 0.75, got %v", out.Match.SkillsOverlapRatio)
	}
	if len(out.Match.MissingSkills) != 1 || out.Match.MissingSkills[0] != "AWS" {
		t.Fatalf("expected missing [AWS], got %v", out.Match.MissingSkills)
	}
	if out.Score < 0 || out.Score > 100 {
		t.Fatalf("score out of range: %v", out.Score)
	}
	if out.Band != matching.Band(float64(out.Score)) {
		t.Fatalf("expected band for score %v, got %q", out.Score, out.Band)
	}
	if len(insights.prompts) != 1 {
		t.Fatalf("expected one insight prompt, got %d", len(insights.prompts))
	}
	if len(out.Recommendations) == 0 {
		t.Fatalf("expected recommendations for missing skills")
	}
}

func TestRunResumeAnalyzerWithoutJobDescription(t *testing.T) {
	vocab := skills.DefaultVocabulary()
	extractor := skills.Extractor{Vocabulary: vocab, Mode: skills.ModeSubstring}
	strategies := matching.NewSet(
		matching.BlendedSkillsStrategy{Skills: extractor, SkillWeight: matching.DefaultSkillWeight},
		matching.PlainLexicalStrategy{},
	)
	insights := &countingInsights{result: llm.Insight{OK: true, Text: "Quantify your impact."}}
	quota := usage.NewService(usage.Policy{FreeResumeChecks: 1, FreeJDChecks: 1})
	svc := NewService(NewMemoryRepo(), quota, strategies, vocab, insights)

	out, err := svc.Run(context.Background(), Request{
		SessionID: "s1",
		Email:     "jane@example.com",
		Kind:      KindResumeAnalyzer,
		FileName:  "resume.txt",
		Data: []byte("Platform engineer. Skills: Python, SQL, Docker, AWS, Kubernetes, " +
			"Terraform, React, PostgreSQL, Redis."),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Band != "" {
		t.Fatalf("expected no band without a job description, got %q", out.Band)
	}
	if len(out.Match.MissingSkills) == 0 {
		t.Fatalf("expected vocabulary skills missing from the resume")
	}
	for _, rec := range out.Recommendations {
		if rec.ID == "ATS_LOW_MATCH" || rec.ID == "ATS_MODERATE_MATCH" || rec.ID == "ATS_MISSING_JD_TERMS" {
			t.Fatalf("unexpected match recommendation %q", rec.ID)
		}
		if strings.HasPrefix(rec.ID, "SKILL_") {
			t.Fatalf("unexpected per-skill recommendation %q", rec.ID)
		}
		for _, text := range []string{rec.Title, rec.Why, rec.Action} {
			if strings.Contains(strings.ToLower(text), "job description") {
				t.Fatalf("recommendation %q mentions a job description: %q", rec.ID, text)
			}
		}
	}
}

func TestScoreMarshalsWithOneDecimal(t *testing.T) {
	raw, err := json.Marshal(Record{Score: 75})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if string(decoded["score"]) != "75.0" {
		t.Fatalf("expected 75.0, got %s", decoded["score"])
	}
}

func TestMemoryRepoListsNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Insert(ctx, Record{ID: id, Email: "jane@example.com", Kind: KindJDMatcher, CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	got, err := repo.ListRecentByUser(ctx, KindJDMatcher, "jane@example.com", 2)
	if err != nil {
		t.Fatalf("ListRecentByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected order %+v", got)
	}
	n, _ := repo.CountByUser(ctx, KindResumeAnalyzer, "jane@example.com")
	if n != 0 {
		t.Fatalf("counts must be per kind, got %d", n)
	}
}
