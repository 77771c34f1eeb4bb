package http

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/MikeRez0/cashhealer/internal/adapter/config"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthText = "Cash Healer Bot is running!"

type Router struct {
	*gin.Engine
	server *http.Server
}

func NewRouter(
	conf *config.HTTP,
	webhookSecret string,
	tokenService port.TokenService,
	webhookHandler *WebhookHandler,
	financialHandler *FinancialHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, healthText)
	})

	if conf.StaticDir != "" {
		router.StaticFile("/financial-modeling.html", filepath.Join(conf.StaticDir, "financial-modeling.html"))
		router.StaticFile("/financial-modeling.js", filepath.Join(conf.StaticDir, "financial-modeling.js"))
	}

	api := router.Group("/api")
	{
		tg := api.Group("", secretCheck(webhookSecret))
		{
			tg.POST("/webhooks/telegram/action", webhookHandler.Action)
			tg.GET("/telegram/setup-webhook", webhookHandler.Setup)
		}

		fm := api.Group("/financial-modeling")
		{
			fm.Use(authCheck(tokenService))
			fm.POST("/save", financialHandler.Save)
		}
	}

	return &Router{
		Engine: router,
		server: &http.Server{
			Addr:              conf.HostString,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Serve starts the HTTP server and blocks until it is shut down.
func (r *Router) Serve() error {
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}
