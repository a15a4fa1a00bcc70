package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/respond"
)

// registerSessionRoutes attaches the /session endpoint used by clients to obtain an id.
func registerSessionRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", sessionHandler)
}

func sessionHandler(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing session id", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"sessionId":  sessionID,
		"newSession": middleware.IsNewSession(c),
	})
}
