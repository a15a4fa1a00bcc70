package users

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
	rg.POST("/profile", h.saveProfile)
	rg.GET("/profile", h.getProfile)
}

type profileRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Phone string `json:"phone" form:"phone"`
}

func (h *Handler) saveProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid profile payload", nil)
		return
	}
	user, err := h.Svc.SaveProfile(c.Request.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		if field, ok := fieldFor(err); ok {
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), []map[string]string{
				{"field": field, "issue": "required"},
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save profile", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"profile": user, "message": "Profile saved!"})
}

func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.Svc.GetByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"profile": user})
}

func fieldFor(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrInvalidEmail):
		return "email", true
	case errors.Is(err, ErrNameRequired):
		return "name", true
	case errors.Is(err, ErrPhoneRequired):
		return "phone", true
	default:
		return "", false
	}
}
