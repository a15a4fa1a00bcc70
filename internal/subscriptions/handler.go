package subscriptions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/respond"
)

// Handler exposes the plan and order endpoints.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/subscriptions/plan", h.getPlan)
	rg.POST("/subscriptions/orders", h.createOrder)
	rg.GET("/subscriptions/orders/:id", h.getOrder)
	rg.POST("/subscriptions/orders/:id/confirm", h.confirmOrder)
}

func (h *Handler) getPlan(c *gin.Context) {
	respond.JSON(c, http.StatusOK, h.Svc.Plan)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid order payload", nil)
		return
	}
	order, err := h.Svc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrNameRequired):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create order", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{
		"order":       order,
		"paymentLink": order.PaymentLink,
		"message":     "Complete the payment, then confirm your order to unlock unlimited checks.",
	})
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "order not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch order", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) confirmOrder(c *gin.Context) {
	order, quota, err := h.Svc.Confirm(c.Request.Context(), c.Param("id"), middleware.SessionIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "order not found", nil)
		case errors.Is(err, ErrOrderExpired):
			respond.Error(c, http.StatusConflict, "order_expired", "This subscription has expired. Please place a new order.", nil)
		case errors.Is(err, ErrSessionMissing):
			respond.Error(c, http.StatusBadRequest, "invalid_request", "missing session id", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to confirm order", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"order":   order,
		"quota":   quota,
		"message": "Subscription active. Enjoy unlimited checks!",
	})
}
