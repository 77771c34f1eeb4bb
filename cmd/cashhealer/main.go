package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeRez0/cashhealer/internal/adapter/auth"
	"github.com/MikeRez0/cashhealer/internal/adapter/cache"
	"github.com/MikeRez0/cashhealer/internal/adapter/client/openai"
	"github.com/MikeRez0/cashhealer/internal/adapter/client/telegram"
	"github.com/MikeRez0/cashhealer/internal/adapter/client/yookassa"
	"github.com/MikeRez0/cashhealer/internal/adapter/config"
	"github.com/MikeRez0/cashhealer/internal/adapter/handler/http"
	"github.com/MikeRez0/cashhealer/internal/adapter/logger"
	"github.com/MikeRez0/cashhealer/internal/adapter/storage"
	"github.com/MikeRez0/cashhealer/internal/adapter/storage/memory"
	"github.com/MikeRez0/cashhealer/internal/adapter/storage/repository"
	"github.com/MikeRez0/cashhealer/internal/adapter/worker"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"github.com/MikeRez0/cashhealer/internal/core/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error: %s\n", err)
		os.Exit(1)
	}
	if err = conf.Validate(); err != nil {
		fmt.Printf("config error: %s\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(conf.App)
	if err != nil {
		fmt.Printf("error creating log: %s\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if err = run(conf, log); err != nil {
		log.Error("bot stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(conf *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := newRepository(ctx, conf, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	if len(conf.Telegram.AdminIDs) > 0 {
		if err = repo.GrantAdmin(ctx, conf.Telegram.AdminIDs); err != nil {
			return fmt.Errorf("admin seeding: %w", err)
		}
	}

	tokenService, err := auth.New(conf.Calculator, log.Named("Auth"))
	if err != nil {
		return fmt.Errorf("token service creating error: %w", err)
	}

	payments, err := yookassa.NewClient(conf.YooKassa, log.Named("YooKassa"))
	if err != nil {
		return fmt.Errorf("payment client creating error: %w", err)
	}
	if conf.YooKassa.Mock {
		log.Warn("YooKassa mock mode: every payment is reported as paid")
	}

	bot, err := telegram.NewClient(conf.Telegram, log.Named("Telegram"))
	if err != nil {
		return fmt.Errorf("telegram client creating error: %w", err)
	}

	var agent port.Agent
	if a, err := openai.NewAgent(conf.OpenAI, log.Named("Agent")); err == nil {
		agent = a
	} else {
		log.Warn("assistant disabled, free text gets the service menu", zap.Error(err))
	}

	batches := cache.NewReportBatches(conf.AdminBatch.Size, conf.AdminBatch.TTL)

	svc, err := service.NewService(repo, payments, bot, agent, batches, tokenService,
		service.Options{
			Catalog: domain.NewCatalog(conf.Catalog.DetoxPrice, conf.Catalog.ModelingPrice,
				conf.Catalog.DetoxFormURL),
			CalculatorURL: conf.HTTP.PublicURL,
		}, log.Named("Service"))
	if err != nil {
		return fmt.Errorf("service creating error: %w", err)
	}

	queue, err := worker.NewQueue(svc, conf.Worker.QueueSize, log.Named("Worker"))
	if err != nil {
		return fmt.Errorf("worker queue creating error: %w", err)
	}
	queue.Start(ctx, conf.Worker.Count)
	defer queue.Close()

	webhookHandler, err := http.NewWebhookHandler(bot, queue, bot, conf.HTTP.PublicURL, log.Named("Webhook handler"))
	if err != nil {
		return fmt.Errorf("webhook handler creating error: %w", err)
	}
	financialHandler, err := http.NewFinancialHandler(svc, log.Named("Financial handler"))
	if err != nil {
		return fmt.Errorf("financial handler creating error: %w", err)
	}

	r, err := http.NewRouter(conf.HTTP, conf.Telegram.WebhookSecret, tokenService,
		webhookHandler, financialHandler, log.Named("Router"))
	if err != nil {
		return fmt.Errorf("router creating error: %w", err)
	}

	switch conf.Telegram.Mode {
	case config.TelegramModePolling:
		if err = bot.DeleteWebhook(); err != nil {
			log.Warn("webhook not removed", zap.Error(err))
		}
		if conf.HTTP.PublicURL == "" {
			log.Warn("PUBLIC_URL is not set, calculator links will not open")
		}
		go bot.Poll(ctx, queue)
	default:
		if err = bot.SetWebhook(conf.HTTP.PublicURL + "/api/webhooks/telegram/action"); err != nil {
			log.Warn("webhook not registered, use /api/telegram/setup-webhook", zap.Error(err))
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server started", zap.String("address", conf.HTTP.HostString),
			zap.String("telegram_mode", conf.Telegram.Mode))
		serveErr <- r.Serve()
	}()

	select {
	case err = <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = r.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("router shutdown: %w", err)
	}
	return nil
}

func newRepository(ctx context.Context, conf *config.Config, log *zap.Logger) (port.Repository, func(), error) {
	if conf.Database.DSN == "" {
		log.Warn("DATABASE_URI is not set, using in-memory storage")
		return memory.New(), func() {}, nil
	}

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}
	if err = db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database migration error: %w", err)
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("order repo creating error: %w", err)
	}
	return repo, db.Close, nil
}
