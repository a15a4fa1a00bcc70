package masterclass

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/masterclasses", h.list)
	rg.POST("/masterclasses/ask", h.ask)
}

func (h *Handler) list(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"courses": h.Svc.Courses()})
}

type askRequest struct {
	Question string `json:"question" form:"question"`
}

func (h *Handler) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid question payload", nil)
		return
	}
	insight, err := h.Svc.Ask(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuestionRequired), errors.Is(err, ErrQuestionTooLong):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to answer question", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"insight": insight})
}
