package analyses

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/respond"
	"resume-matcher/internal/shared/util"
	"resume-matcher/internal/usage"
)

const defaultMaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	PaymentLink    string
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, paymentLink string, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, PaymentLink: paymentLink, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume-analyses", h.run(KindResumeAnalyzer))
	rg.POST("/jd-matches", h.run(KindJDMatcher))
	rg.GET("/history", h.history)
}

func (h *Handler) run(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("flow", string(kind))
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeFileTooLarge, fileTooLargeMessage(tooLarge.Limit), gin.H{
					"maxBytes": tooLarge.Limit,
				})
				return
			}
			respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidRequest, ErrFileRequired.Error(), nil)
			return
		}
		fileName, err := util.SanitizeFileName(fileHeader.Filename)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid file name", nil)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "unable to read file", nil)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "unable to read file", nil)
			return
		}

		ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
		out, err := h.Svc.Run(ctx, Request{
			SessionID:      middleware.SessionIDFromContext(c),
			Email:          c.PostForm("email"),
			Kind:           kind,
			FileName:       fileName,
			ContentType:    fileHeader.Header.Get("Content-Type"),
			Data:           data,
			JobDescription: c.PostForm("jobDescription"),
			Strategy:       c.PostForm("strategy"),
		})
		c.Set("flowState", string(h.Svc.State(middleware.SessionIDFromContext(c), kind)))
		if err != nil {
			h.writeRunError(c, err)
			return
		}
		respond.JSON(c, http.StatusOK, out)
	}
}

func fileTooLargeMessage(limit int64) string {
	size := strconv.FormatInt(limit, 10) + " bytes"
	if limit >= 1<<20 {
		size = strconv.FormatInt(limit>>20, 10) + " MB"
	}
	return "File is too large. Upload a file of at most " + size + "."
}

func (h *Handler) writeRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusPaymentRequired, ErrorCodeSubscriptionRequired, MessageLimitReached, gin.H{
			"paymentLink": h.PaymentLink,
		})
	case errors.Is(err, ErrExtractionFailed):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeExtractionFailed, MessageExtractionFailed, nil)
	case errors.Is(err, ErrJobDescriptionRequired),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrUnknownStrategy),
		errors.Is(err, ErrInvalidKind),
		errors.Is(err, ErrSessionRequired):
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, ErrorCodeTimeout, "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to run analysis", nil)
	}
}

func (h *Handler) history(c *gin.Context) {
	kind, ok := ParseKind(strings.TrimSpace(c.DefaultQuery("kind", string(KindResumeAnalyzer))))
	if !ok {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidRequest, ErrInvalidKind.Error(), nil)
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	records, total, err := h.Svc.History(c.Request.Context(), kind, c.Query("email"), limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidKind):
			respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list history", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"kind":  kind,
		"total": total,
		"items": records,
	})
}
