package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expensebot/internal/categorize"
	"expensebot/internal/config"
	apphttp "expensebot/internal/http"
	ledgerfactory "expensebot/internal/ledger/factory"
	"expensebot/internal/log"
	"expensebot/internal/ocr"
	"expensebot/internal/receipts"
	"expensebot/internal/services"
	"expensebot/internal/telegram"
)

func main() {
	// Optional: local development overrides.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := ledgerfactory.New(ctx, cfg, logger.WithComponent(log.ComponentLedger))
	if err != nil {
		logger.Error("Failed to initialize ledger backend", log.FieldError, err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Ledger cleanup failed", log.FieldError, err)
			}
		}()
	}

	engine, err := categorize.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("Failed to initialize categorization engine", log.FieldError, err)
		os.Exit(1)
	}

	var extractor services.Extractor
	if cfg.ServiceAccountEmail != "" && cfg.ServiceAccountKey != "" {
		cli, err := ocr.NewClient(ctx, cfg.ServiceAccountEmail, cfg.ServiceAccountKey)
		if err != nil {
			logger.Error("Failed to initialize OCR client", log.FieldError, err)
			os.Exit(1)
		}
		extractor = cli
	} else {
		logger.Warn("No service credentials, receipt OCR disabled")
	}

	receiptStore, err := receipts.NewFromConfig(ctx, cfg, logger.WithComponent(log.ComponentReceipts))
	if err != nil {
		logger.Error("Failed to initialize receipt storage", log.FieldError, err)
		os.Exit(1)
	}

	bot, err := telegram.NewBot(cfg.TelegramBotToken)
	if err != nil {
		logger.Error("Failed to initialize Telegram bot", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Authenticated Telegram bot", "username", bot.Username())

	intake := services.NewIntake(services.Options{
		Store:        store,
		Engine:       engine,
		OCR:          extractor,
		Receipts:     receiptStore,
		PrimarySheet: cfg.LedgerSheet,
		RelatedSheet: cfg.RelatedPartySheet,
		Threshold:    cfg.YTDThreshold,
		RecentLimit:  cfg.RecentLimit,
		Logger:       logger,
	})

	srv := apphttp.NewServer(cfg, intake, bot, bot, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting webhook server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"ledger_backend", cfg.LedgerBackend,
			"receipt_backend", cfg.ReceiptBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
