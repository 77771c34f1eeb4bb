package http

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"
const tokenQueryKey = "token"
const userPayloadKey = "user_payload"

const secretHeaderKey = "X-Telegram-Bot-Api-Secret-Token"
const secretQueryKey = "secret"

// authCheck accepts the calculator token as a Bearer header or a token query parameter.
func authCheck(tokenService port.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.Query(tokenQueryKey)
		if header := ctx.Request.Header.Get(authHeaderKey); header != "" {
			words := strings.Fields(header)
			if len(words) != 2 || words[0] != authType {
				handleAbort(ctx, domain.ErrInvalidToken)
				return
			}
			token = words[1]
		}
		if token == "" {
			handleAbort(ctx, domain.ErrEmptyToken)
			return
		}

		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			handleAbort(ctx, domain.ErrInvalidToken)
			return
		}

		ctx.Set(userPayloadKey, payload)

		ctx.Next()
	}
}

func getAuthPayload(ctx *gin.Context) *port.TokenPayload {
	return ctx.MustGet(userPayloadKey).(*port.TokenPayload)
}

// secretCheck guards Telegram-facing routes when a webhook secret is configured.
func secretCheck(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secret == "" {
			ctx.Next()
			return
		}
		got := ctx.GetHeader(secretHeaderKey)
		if got == "" {
			got = ctx.Query(secretQueryKey)
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			handleAbort(ctx, domain.ErrInvalidWebhook)
			return
		}
		ctx.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Info("request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
