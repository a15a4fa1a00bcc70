package analyses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/extract"
	"resume-matcher/internal/llm"
	"resume-matcher/internal/matching"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/shared/util"
	"resume-matcher/internal/skills"
	"resume-matcher/internal/usage"
)

const (
	DefaultPersistTimeout    = 5 * time.Second
	DefaultHistoryTextPrefix = 500
	DefaultHistoryLimit      = 20
	MaxHistoryLimit          = 100
)

// QuotaGate reserves and settles free-tier runs for a session.
type QuotaGate interface {
	Active(ctx context.Context, sessionID string) (bool, error)
	Reserve(ctx context.Context, sessionID string, c usage.Counter) (usage.Reservation, error)
	Commit(ctx context.Context, res usage.Reservation) (usage.Quota, error)
	Release(ctx context.Context, res usage.Reservation) error
}

// InsightGenerator produces LLM feedback and never fails.
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string) llm.Insight
}

// Service runs the resume analyzer and JD matcher flows.
type Service struct {
	Repo              Repo
	Quota             QuotaGate
	Strategies        matching.Set
	Vocabulary        skills.Vocabulary
	Insights          InsightGenerator
	Flows             *Flows
	PersistTimeout    time.Duration
	HistoryTextPrefix int

	now func() time.Time
}

func NewService(repo Repo, quota QuotaGate, strategies matching.Set, vocab skills.Vocabulary, insights InsightGenerator) *Service {
	return &Service{
		Repo:              repo,
		Quota:             quota,
		Strategies:        strategies,
		Vocabulary:        vocab,
		Insights:          insights,
		Flows:             NewFlows(DefaultFlowTTL),
		PersistTimeout:    DefaultPersistTimeout,
		HistoryTextPrefix: DefaultHistoryTextPrefix,
		now:               time.Now,
	}
}

// Request is one run of a flow. For the resume analyzer JobDescription is optional.
type Request struct {
	SessionID      string
	Email          string
	Kind           Kind
	FileName       string
	ContentType    string
	Data           []byte
	JobDescription string
	Strategy       string
}

// Outcome is the result of a completed run.
type Outcome struct {
	ID              string               `json:"id"`
	Kind            Kind                 `json:"kind"`
	Score           Score                `json:"score"`
	Band            string               `json:"band,omitempty"`
	Match           matching.MatchResult `json:"match"`
	Insight         llm.Insight          `json:"insight"`
	Recommendations []Recommendation     `json:"recommendations"`
	Saved           bool                 `json:"saved"`
	Notice          string               `json:"notice,omitempty"`
	State           State                `json:"state"`
}

// Run executes the flow. It returns ErrExtractionFailed when the upload has no usable
// text and usage.ErrLimitReached when the session is out of free runs; in both cases no
// scoring or insight work is done. Insight and persistence failures degrade the Outcome
// instead of failing the run.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return Outcome{}, ErrSessionRequired
	}
	if _, ok := ParseKind(string(req.Kind)); !ok {
		return Outcome{}, ErrInvalidKind
	}
	strategy, ok := s.Strategies.Get(req.Strategy)
	if !ok {
		return Outcome{}, ErrUnknownStrategy
	}
	email := util.NormalizeEmail(req.Email)
	if !util.ValidEmail(email) {
		return Outcome{}, ErrInvalidEmail
	}
	jd := strings.TrimSpace(req.JobDescription)
	if req.Kind == KindJDMatcher && jd == "" {
		return Outcome{}, ErrJobDescriptionRequired
	}

	kind := string(req.Kind)
	logFields := map[string]any{
		"requestId": requestIDFromContext(ctx),
		"kind":      kind,
		"emailHash": util.HashKey(email),
		"strategy":  strategy.Name(),
	}

	if s.flows().State(req.SessionID, req.Kind) == StateBlocked {
		active, err := s.Quota.Active(ctx, req.SessionID)
		if err != nil {
			return Outcome{}, err
		}
		if !active {
			metrics.IncAnalysisBlocked(kind)
			return Outcome{State: StateBlocked}, usage.ErrLimitReached
		}
	}

	start := s.clock()
	metrics.IncAnalysisStarted(kind)
	s.flows().set(req.SessionID, req.Kind, StateAwaitingUpload)

	resumeText := extract.TextForExtension(ctx, req.Data, extract.Extension(req.FileName, req.ContentType))
	if resumeText == "" {
		metrics.IncAnalysisRejected(kind)
		telemetry.Info("analysis.rejected", withField(logFields, "reason", "extraction_failed"))
		return Outcome{State: StateAwaitingUpload}, ErrExtractionFailed
	}
	s.flows().set(req.SessionID, req.Kind, StateExtracted)

	s.flows().set(req.SessionID, req.Kind, StateQuotaCheck)
	reservation, err := s.Quota.Reserve(ctx, req.SessionID, counterFor(req.Kind))
	if err != nil {
		if errors.Is(err, usage.ErrLimitReached) {
			s.flows().set(req.SessionID, req.Kind, StateBlocked)
			metrics.IncAnalysisBlocked(kind)
			telemetry.Info("analysis.blocked", logFields)
			return Outcome{State: StateBlocked}, err
		}
		s.flows().set(req.SessionID, req.Kind, StateIdle)
		return Outcome{}, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := s.Quota.Release(detached(ctx), reservation); err != nil {
			telemetry.Warn("usage.release_failed", withField(logFields, "error", err.Error()))
		}
		s.flows().set(req.SessionID, req.Kind, StateIdle)
	}()

	s.flows().set(req.SessionID, req.Kind, StateScoring)
	hasJD := jd != ""
	target := jd
	if !hasJD {
		target = s.Vocabulary.Document()
	}
	match := strategy.Score(resumeText, target)

	s.flows().set(req.SessionID, req.Kind, StateInsightRequested)
	insight := s.insight(ctx, req.Kind, resumeText, jd, match)
	if !insight.OK {
		metrics.IncInsightFailed()
	}

	if _, err := s.Quota.Commit(detached(ctx), reservation); err != nil {
		return Outcome{}, err
	}
	committed = true
	s.flows().set(req.SessionID, req.Kind, StateCompleted)

	out := Outcome{
		ID:              uuid.NewString(),
		Kind:            req.Kind,
		Score:           Score(match.BlendedScorePercent),
		Match:           match,
		Insight:         insight,
		Recommendations: buildRecommendations(match, hasJD),
		State:           StateCompleted,
	}
	// Without a job description the score is vocabulary coverage and has no match band.
	if hasJD {
		out.Band = matching.Band(match.BlendedScorePercent)
	}

	record := Record{
		ID:         out.ID,
		Email:      email,
		Kind:       req.Kind,
		Score:      out.Score,
		TextPrefix: util.TruncateRunes(resumeText, s.HistoryTextPrefix),
		Feedback:   insight.Text,
		CreatedAt:  s.clock().UTC(),
	}
	if err := s.persist(ctx, record); err != nil {
		metrics.IncPersistFailed()
		telemetry.Error("analysis.persist_failed", withField(logFields, "error", err.Error()))
		out.Notice = MessageNotSaved
	} else {
		out.Saved = true
	}

	durationMs := float64(s.clock().Sub(start).Milliseconds())
	metrics.IncAnalysisCompleted(kind)
	metrics.ObserveAnalysisDurationMs(durationMs)
	fields := withField(logFields, "score", float64(out.Score))
	fields["insightOk"] = insight.OK
	fields["saved"] = out.Saved
	fields["durationMs"] = durationMs
	telemetry.Info("analysis.status", fields)

	return out, nil
}

// State reports the current flow state of the session for kind.
func (s *Service) State(sessionID string, kind Kind) State {
	return s.flows().State(sessionID, kind)
}

// History lists the user's recent records for kind, newest first, and the total count.
func (s *Service) History(ctx context.Context, kind Kind, email string, limit int) ([]Record, int, error) {
	if _, ok := ParseKind(string(kind)); !ok {
		return nil, 0, ErrInvalidKind
	}
	email = util.NormalizeEmail(email)
	if !util.ValidEmail(email) {
		return nil, 0, ErrInvalidEmail
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	records, err := s.Repo.ListRecentByUser(ctx, kind, email, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountByUser(ctx, kind, email)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *Service) insight(ctx context.Context, kind Kind, resumeText, jd string, match matching.MatchResult) llm.Insight {
	if s.Insights == nil {
		return llm.Insight{OK: false, Reason: llm.UnavailableReason}
	}
	var prompt string
	switch {
	case kind == KindJDMatcher:
		prompt = llm.MatchCoachingPrompt(resumeText, jd, match.BlendedScorePercent, match.MissingSkills, match.MissingTerms)
	case jd != "":
		prompt = llm.ResumeFeedbackPrompt(resumeText, match.MissingSkills)
	default:
		prompt = llm.ResumeFeedbackPrompt(resumeText, nil)
	}
	return s.Insights.Generate(ctx, prompt)
}

// persist stores the record on a context detached from the request so that a client
// disconnect after scoring does not drop history.
func (s *Service) persist(ctx context.Context, record Record) error {
	if s.Repo == nil {
		return errors.New("analysis repository not configured")
	}
	timeout := s.PersistTimeout
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}
	pctx, cancel := context.WithTimeout(detached(ctx), timeout)
	defer cancel()
	return s.Repo.Insert(pctx, record)
}

func (s *Service) flows() *Flows {
	if s.Flows == nil {
		s.Flows = NewFlows(DefaultFlowTTL)
	}
	return s.Flows
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func counterFor(kind Kind) usage.Counter {
	if kind == KindJDMatcher {
		return usage.CounterJD
	}
	return usage.CounterResume
}

func withField(fields map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[key] = value
	return out
}
