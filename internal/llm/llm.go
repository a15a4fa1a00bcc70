package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-matcher/internal/shared/telemetry"
)

// Client abstracts LLM providers that turn a prompt into free text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = errors.New("LLM returned an empty response")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}

// Reason shown to users when feedback could not be produced. Provider error text is
// only logged.
const UnavailableReason = "AI feedback is temporarily unavailable. Please try again later."

// Insight is the outcome of a feedback request.
type Insight struct {
	OK     bool   `json:"ok"`
	Text   string `json:"text,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Generator wraps a Client so that callers always get an Insight back.
type Generator struct {
	Client  Client
	Timeout time.Duration
	Name    string
}

// NewGenerator returns a Generator; a nil client becomes the placeholder.
func NewGenerator(client Client, timeout time.Duration, name string) *Generator {
	if client == nil {
		client = PlaceholderClient{}
	}
	return &Generator{Client: client, Timeout: timeout, Name: name}
}

// Generate runs the prompt once. It never retries and never returns an error.
func (g *Generator) Generate(ctx context.Context, prompt string) Insight {
	if g == nil || g.Client == nil {
		return Insight{OK: false, Reason: UnavailableReason}
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.Client.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		telemetry.Warn("llm.failed", map[string]any{
			"provider":    g.Name,
			"error":       err,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return Insight{OK: false, Reason: UnavailableReason}
	}
	telemetry.Info("llm.usage", map[string]any{
		"provider":     g.Name,
		"prompt_chars": len(prompt),
		"output_chars": len(text),
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	return Insight{OK: true, Text: strings.TrimSpace(text)}
}
