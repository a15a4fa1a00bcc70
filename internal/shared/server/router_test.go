package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/server/middleware"
)

func testConfig() config.Config {
	return config.Config{
		Env:             "dev",
		StoreBackend:    config.StoreMemory,
		CORSAllowOrigin: []string{"http://localhost:5173"},
		RateLimitRPS:    100,
		RateLimitBurst:  100,
		MaxUploadBytes:  1 << 20,
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Config: testConfig()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "analysis_duration_ms") {
		t.Fatalf("unexpected metrics response %d", rec.Code)
	}
}

func TestSessionEndpointIssuesAndEchoesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Config: testConfig()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	var body struct {
		SessionID  string `json:"sessionId"`
		NewSession bool   `json:"newSession"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SessionID == "" || !body.NewSession || rec.Header().Get(middleware.SessionHeader) != body.SessionID {
		t.Fatalf("unexpected session response %s", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set(middleware.SessionHeader, body.SessionID)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"newSession":false`) {
		t.Fatalf("expected existing session, got %s", rec.Body.String())
	}
}
