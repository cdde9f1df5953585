package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	oni "github.com/perchik2875/ONI"
	"github.com/perchik2875/ONI/internal/config"
	"github.com/perchik2875/ONI/internal/handler"
	"github.com/perchik2875/ONI/internal/metrics"
	"github.com/perchik2875/ONI/internal/middleware"
	"github.com/perchik2875/ONI/internal/service"
	"github.com/perchik2875/ONI/internal/session"
	"github.com/perchik2875/ONI/internal/storage/postgres"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(oni.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := postgres.New(pool)

	// Connect to the session store
	rdb, err := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	sessions := session.NewRedisManager(rdb, config.SessionTTL)

	// Initialize services
	userService := service.NewUserService(store)
	taskService := service.NewTaskService(store)
	referralService := service.NewReferralService(config.ReferralShare)
	submissionService := service.NewSubmissionService(store, referralService)
	withdrawalService := service.NewWithdrawalService(store, config.MinWithdrawal)
	broadcastService := service.NewBroadcastService(store, logger)
	linkPreview := service.NewLinkPreview(config.LinkPreviewTimeout)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.UserLoader(userService, cfg, cfg.SupportContact),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleDefault(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true})
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Sessions:    sessions,
		Users:       userService,
		Tasks:       taskService,
		Submissions: submissionService,
		Withdrawals: withdrawalService,
		Broadcasts:  broadcastService,
		Preview:     linkPreview,
		BotUsername: me.Username,
	})
	h.Register()

	// Serve operational counters
	go func() {
		if err := metrics.Serve(cfg.MetricsPort); err != nil {
			slog.Error("metrics server", "error", err)
		}
	}()

	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
