package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rewardtracker/bot/internal/api"
	"github.com/rewardtracker/bot/internal/bot"
	"github.com/rewardtracker/bot/internal/config"
	"github.com/rewardtracker/bot/internal/domain"
	"github.com/rewardtracker/bot/internal/locale"
	"github.com/rewardtracker/bot/internal/logger"
	"github.com/rewardtracker/bot/internal/session"
	"github.com/rewardtracker/bot/internal/storage"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

func main() {
	// Load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(logLevel)
	log.Info("Starting RewardTracker bot", "log_level", cfg.LogLevel)

	// Initialize database
	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		log.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		log.Error("Failed to enable WAL mode", "error", err)
		os.Exit(1)
	}

	log.Info("Database opened", "path", cfg.DatabasePath)

	dbQueue := storage.NewDBQueue(db)
	defer dbQueue.Close()

	if err := storage.InitSchema(dbQueue); err != nil {
		log.Error("Failed to initialize database schema", "error", err)
		os.Exit(1)
	}
	log.Info("Database schema initialized")

	// Create repositories
	userRepo := storage.NewUserRepository(dbQueue)
	reportRepo := storage.NewReportRepository(dbQueue)
	analysisRepo := storage.NewAnalysisRepository(dbQueue)
	settingsRepo := storage.NewSettingsRepository(dbQueue)
	broadcastRepo := storage.NewBroadcastRepository(dbQueue)

	log.Info("Repositories created")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// WebSocket hub doubles as the event publisher for domain services
	hub := api.NewHub(log.Named("hub"))
	go hub.Run(ctx)

	coder, err := domain.NewAffiliateCoder()
	if err != nil {
		log.Error("Failed to create affiliate coder", "error", err)
		os.Exit(1)
	}

	// Create bot handler first (needed for default handler)
	var handler *bot.BotHandler

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if handler == nil {
				return
			}
			switch {
			case update.CallbackQuery != nil:
				handler.HandleCallback(ctx, b, update)
			case update.Message != nil && len(update.Message.Photo) > 0:
				handler.HandlePhoto(ctx, b, update)
			case update.Message != nil && update.Message.Text != "":
				handler.HandleMessage(ctx, b, update)
			}
		}),
	}

	b, err := tgbot.New(cfg.TelegramToken, opts...)
	if err != nil {
		log.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	log.Info("Telegram bot created")

	// Create domain services
	userService := domain.NewUserService(userRepo, coder, log.Named("users"))
	reportService := domain.NewReportService(reportRepo, analysisRepo, userRepo, hub, log.Named("reports"))
	analysisService := domain.NewAnalysisService(analysisRepo, reportRepo, userRepo, hub, log.Named("analyses"))
	broadcastService := domain.NewBroadcastService(broadcastRepo, userRepo, b, hub, log.Named("broadcasts"))

	log.Info("Domain services created")

	localizer, err := locale.NewLocalizer(locale.NewLocale(locale.PtBR))
	if err != nil {
		log.Error("Failed to create localizer", "error", err)
		os.Exit(1)
	}

	// Session store with periodic inactivity sweep
	sessions := session.NewStore()
	sessions.StartSweeper(ctx, cfg.SweepInterval, cfg.ConversationTimeout, log.Named("sessions"))
	log.Info("Session sweeper started", "interval", cfg.SweepInterval, "timeout", cfg.ConversationTimeout)

	engine := bot.NewEngine(b, log.Named("conversation"))
	handler = bot.NewBotHandler(
		b,
		sessions,
		engine,
		userService,
		reportService,
		analysisService,
		broadcastService,
		cfg,
		log.Named("handler"),
		localizer,
	)

	log.Info("Bot handler created")

	// Register command handlers; everything else flows through the default
	// handler so active conversations can claim text first.
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, handler.HandleStart)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/admin", tgbot.MatchTypeExact, handler.HandleAdmin)

	log.Info("Command handlers registered")

	// Start broadcast dispatcher
	broadcastService.StartDispatcher(ctx, cfg.BroadcastInterval)
	log.Info("Broadcast dispatcher started", "interval", cfg.BroadcastInterval)

	// Start admin API server
	apiServer := api.NewServer(
		userService,
		reportService,
		broadcastService,
		settingsRepo,
		hub,
		b,
		log.Named("api"),
	)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apiServer.Routes(),
	}

	go func() {
		log.Info("Admin API listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Admin API server failed", "error", err)
			cancel()
		}
	}()

	// Start bot polling in a goroutine
	go func() {
		log.Info("Starting bot polling")
		b.Start(ctx)
	}()

	log.Info("Bot is running. Press Ctrl+C to stop.")

	<-ctx.Done()

	log.Info("Shutdown signal received, stopping...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Admin API shutdown failed", "error", err)
	}

	log.Info("Bot stopped successfully")
}
