package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"resume-matcher/internal/llm"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func reply(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGenerateJoinsTextParts(t *testing.T) {
	fake := &fakeModels{resp: reply(&genai.Part{Text: "Tighten "}, &genai.Part{Text: "your summary."})}
	client := &Client{models: fake, model: DefaultModel}

	got, err := client.Generate(context.Background(), "review this")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Tighten your summary." {
		t.Fatalf("unexpected text %q", got)
	}
	if fake.model != DefaultModel || fake.prompt != "review this" {
		t.Fatalf("unexpected request model=%q prompt=%q", fake.model, fake.prompt)
	}
}

func TestGenerateSkipsThoughtParts(t *testing.T) {
	fake := &fakeModels{resp: reply(&genai.Part{Text: "thinking", Thought: true}, &genai.Part{Text: "answer"})}
	client := &Client{models: fake, model: DefaultModel}

	got, err := client.Generate(context.Background(), "q")
	if err != nil || got != "answer" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestGenerateErrors(t *testing.T) {
	client := &Client{models: &fakeModels{err: errors.New("quota")}, model: DefaultModel}
	if _, err := client.Generate(context.Background(), "q"); err == nil {
		t.Fatalf("expected provider error")
	}

	client = &Client{models: &fakeModels{resp: &genai.GenerateContentResponse{}}, model: DefaultModel}
	if _, err := client.Generate(context.Background(), "q"); !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected error without key")
	}
}

func TestNewClientModel(t *testing.T) {
	client, err := NewClient(context.Background(), "test-key", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.model != "gemini-2.5-flash" {
		t.Fatalf("expected current flash model by default, got %q", client.model)
	}

	client, err = NewClient(context.Background(), "test-key", "gemini-2.5-pro")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.model != "gemini-2.5-pro" {
		t.Fatalf("expected configured model, got %q", client.model)
	}
}
