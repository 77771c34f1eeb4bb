package http

import (
	"net/http"

	"github.com/MikeRez0/cashhealer/internal/adapter/client/telegram"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const webhookPath = "/api/webhooks/telegram/action"

type WebhookRegistrar interface {
	SetWebhook(url string) error
}

type WebhookHandler struct {
	Handler
	messenger port.Messenger
	scheduler port.EventScheduler
	registrar WebhookRegistrar
	publicURL string
}

func NewWebhookHandler(messenger port.Messenger, scheduler port.EventScheduler,
	registrar WebhookRegistrar, publicURL string, logger *zap.Logger) (*WebhookHandler, error) {
	return &WebhookHandler{
		Handler:   *NewHandler(logger),
		messenger: messenger,
		scheduler: scheduler,
		registrar: registrar,
		publicURL: publicURL,
	}, nil
}

// Action acknowledges the update at once; processing happens on the worker queue.
func (wh *WebhookHandler) Action(ctx *gin.Context) {
	var update tgbotapi.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		wh.handleValidationError(ctx, err)
		return
	}

	telegram.Dispatch(ctx.Request.Context(), update, wh.messenger, wh.scheduler, wh.logger)

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

type setupResponse struct {
	OK         bool   `json:"ok"`
	WebhookURL string `json:"webhook_url"`
}

func (wh *WebhookHandler) Setup(ctx *gin.Context) {
	if wh.publicURL == "" {
		ctx.JSON(http.StatusServiceUnavailable, errorResponse{Error: "PUBLIC_URL is not configured"})
		return
	}
	url := wh.publicURL + webhookPath
	if err := wh.registrar.SetWebhook(url); err != nil {
		wh.handleError(ctx, err)
		return
	}
	wh.handleSuccess(ctx, setupResponse{OK: true, WebhookURL: url})
}
