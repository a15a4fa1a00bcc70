package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionHeader carries the browser session identifier.
	SessionHeader = "X-Session-Id"

	sessionIDKey  = "sessionId"
	newSessionKey = "newSession"
	maxSessionLen = 128
)

// Session resolves the caller's session from the X-Session-Id header, issuing a
// fresh identifier when the header is missing or malformed. The id is echoed back
// so clients can reuse it on later requests.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if !validSessionID(id) {
			id = uuid.NewString()
			c.Set(newSessionKey, true)
		}
		c.Set(sessionIDKey, id)
		c.Writer.Header().Set(SessionHeader, id)
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// IsNewSession reports whether Session issued the id on this request.
func IsNewSession(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(newSessionKey)
}

func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
