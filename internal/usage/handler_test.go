package usage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/middleware"
)

func TestGetQuota(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(Policy{FreeResumeChecks: 1, FreeJDChecks: 2})
	r := gin.New()
	r.Use(middleware.Session())
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quota", nil)
	req.Header.Set(middleware.SessionHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body View
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SessionID != "abc-123" || body.FreeJDChecksLimit != 2 || body.FreeJDChecksRemain != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
}
