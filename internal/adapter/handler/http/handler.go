package http

import (
	"errors"
	"net/http"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrEmptyToken:     http.StatusUnauthorized,
	domain.ErrInvalidToken:   http.StatusUnauthorized,
	domain.ErrForbidden:      http.StatusForbidden,
	domain.ErrInvalidWebhook: http.StatusUnauthorized,

	domain.ErrNoUpdatedData: http.StatusBadRequest,
	domain.ErrBadRequest:    http.StatusBadRequest,

	domain.ErrMessenger:      http.StatusBadGateway,
	domain.ErrAgent:          http.StatusBadGateway,
	domain.ErrPaymentGateway: http.StatusBadGateway,
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

func statusOf(err error) (int, bool) {
	if code, ok := errorStatusMap[err]; ok {
		return code, true
	}
	for known, code := range errorStatusMap {
		if errors.Is(err, known) {
			return code, true
		}
	}
	return http.StatusInternalServerError, false
}

// handleValidationError sends an error response for some specific request validation error
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	h.logger.Debug("bad request", zap.Error(err))
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: domain.ErrBadRequest.Error()})
}

// handleAbort sends an error response and aborts the request with the specified status code and error message
func handleAbort(ctx *gin.Context, err error) {
	statusCode, _ := statusOf(err)
	ctx.AbortWithStatusJSON(statusCode, errorResponse{Error: err.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := statusOf(err)
	if !ok {
		h.logger.Error("error processing request", zap.Error(err))
	}
	ctx.JSON(statusCode, errorResponse{Error: err.Error()})
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	if data != nil {
		ctx.JSON(http.StatusOK, data)
	} else {
		ctx.Status(http.StatusOK)
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
