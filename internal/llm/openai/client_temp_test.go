package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"resume-matcher/internal/llm"
)

func newTestServer(t *testing.T, reply string, status int) (*httptest.Server, func() map[string]any) {
	t.Helper()
	var mu sync.Mutex
	var lastBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		lastBody = payload
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	oldURL := apiURL
	apiURL = server.URL
	t.Cleanup(func() {
		apiURL = oldURL
		server.Close()
	})
	return server, func() map[string]any {
		mu.Lock()
		defer mu.Unlock()
		return lastBody
	}
}

func TestGenerateReturnsContent(t *testing.T) {
	_, body := newTestServer(t, `{"choices":[{"message":{"content":"  Add metrics.  "}}],"usage":{"total_tokens":12}}`, http.StatusOK)

	client, err := NewClient("test-key", "gpt-4o-mini", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Add metrics." {
		t.Fatalf("unexpected content %q", got)
	}
	if _, ok := body()["temperature"]; !ok {
		t.Fatalf("expected temperature for gpt-4o-mini")
	}
}

func TestGenerateOmitsTemperatureForGPT5(t *testing.T) {
	_, body := newTestServer(t, `{"choices":[{"message":{"content":"ok"}}]}`, http.StatusOK)

	client, err := NewClient("test-key", "gpt-5-mini", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Generate(context.Background(), "hello"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := body()["temperature"]; ok {
		t.Fatalf("expected temperature to be omitted")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		status int
	}{
		{name: "api error", reply: `{"error":{"message":"bad key","type":"invalid_request_error"}}`, status: http.StatusUnauthorized},
		{name: "no choices", reply: `{"choices":[]}`, status: http.StatusOK},
		{name: "not json", reply: `<html>`, status: http.StatusBadGateway},
		{name: "empty content", reply: `{"choices":[{"message":{"content":"  "}}]}`, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestServer(t, tt.reply, tt.status)
			client, err := NewClient("test-key", "gpt-4o-mini", time.Second)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			if _, err := client.Generate(context.Background(), "hello"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestGenerateEmptyContentIsEmptyResponse(t *testing.T) {
	newTestServer(t, `{"choices":[{"message":{"content":""}}]}`, http.StatusOK)
	client, _ := NewClient("test-key", "gpt-4o-mini", time.Second)
	_, err := client.Generate(context.Background(), "hello")
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini", 0); err == nil {
		t.Fatalf("expected error without key")
	}
	if _, err := NewClient("key", " ", 0); err == nil {
		t.Fatalf("expected error without model")
	}
}
