package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yokweb/billing-notifier/internal/api"
	"github.com/yokweb/billing-notifier/internal/config"
	"github.com/yokweb/billing-notifier/internal/email"
	"github.com/yokweb/billing-notifier/internal/notify"
	"github.com/yokweb/billing-notifier/internal/worker"

	stripeinternal "github.com/yokweb/billing-notifier/internal/stripe"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Root context cancelled by OS signal. Worker pool, HTTP server, and the
	// Gmail token refresher all hang off it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Config ────────────────────────────────────────────────────────────────
	// Load refuses to return a Config without the Stripe secrets — the process
	// exits here rather than serve webhooks it cannot verify.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// ── Stripe ────────────────────────────────────────────────────────────────
	stripeClient := stripeinternal.NewClient(cfg.StripeSecretKey)

	// ── Mail channel ──────────────────────────────────────────────────────────
	// Gmail API is the default; SMTP_HOST switches to a plain SMTP relay.
	var mailer email.Sender
	if cfg.UseSMTP() {
		mailer = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Sender:   cfg.SenderEmail,
		})
		logger.Info("mail: using SMTP", "host", cfg.SMTPHost)
	} else {
		mailer, err = email.NewGmailSender(ctx, email.GmailConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURI:  cfg.GoogleRedirectURI,
			RefreshToken: cfg.GoogleRefreshToken,
			Sender:       cfg.SenderEmail,
		})
		if err != nil {
			return fmt.Errorf("mail: %w", err)
		}
		logger.Info("mail: using Gmail API", "sender", cfg.SenderEmail)
	}

	// ── Dispatch engine + worker pool ─────────────────────────────────────────
	notifier := notify.New(stripeClient, mailer, email.Branding{
		Name:       cfg.BrandName,
		LogoURL:    cfg.LogoURL,
		AccountURL: cfg.AccountURL,
		PricingURL: cfg.PricingURL,
	}, logger)

	runner := worker.NewRunner(notifier, worker.RunnerConfig{
		Workers:         cfg.WorkerCount,
		DispatchTimeout: cfg.DispatchTimeout,
	}, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		stripeClient,
		runner, // *Runner satisfies worker.Enqueuer
		api.Config{
			StripeWebhookSecret: cfg.StripeWebhookSecret,
			Env:                 cfg.Env,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the worker pool in a background goroutine. It blocks until ctx is done.
	go runner.Start(ctx)

	// Start the HTTP server in a background goroutine.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight requests up to 20 seconds to finish. In-flight email
	// dispatches race the shutdown; losing one is within the best-effort
	// delivery contract.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
