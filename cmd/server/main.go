package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eaglekidz/internal/adapters/api"
	"eaglekidz/internal/adapters/email"
	web "eaglekidz/internal/adapters/http"
	"eaglekidz/internal/adapters/http/middleware"
	"eaglekidz/internal/adapters/http/perf"
	"eaglekidz/internal/app"
	"eaglekidz/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := app.NewLogger(cfg.Log, os.Stderr)

	// Backend client, instrumented into the same collector as inbound requests
	collector := perf.NewCollector(perf.DefaultRingSize)
	backend := api.New(cfg.Backend.BaseURL,
		api.WithSummarizePath(cfg.Backend.SummarizePath),
		api.WithObserver(collector.BackendObserver()),
	)

	var sender email.Sender
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.ReplyTo)
		logger.Info("email_sender_configured", "provider", "resend", "recipients", len(cfg.Email.ReviewRecipients))
	} else {
		sender = email.NewNoopSender()
		if cfg.Web.IsProduction() {
			logger.Warn("email_sender_disabled", "reason", "EMAIL_RESEND_API_KEY is not set")
		} else {
			logger.Info("email_sender_configured", "provider", "noop")
		}
	}

	var templates, static fs.FS
	if cfg.Web.TemplatesDir != "" {
		templates = os.DirFS(cfg.Web.TemplatesDir)
	}
	if cfg.Web.StaticDir != "" {
		static = os.DirFS(cfg.Web.StaticDir)
	}

	srv, err := web.New(web.Deps{
		Backend:          backend,
		Sender:           sender,
		Recipients:       cfg.Email.ReviewRecipients,
		Collector:        collector,
		Location:         cfg.Web.Location(),
		Templates:        templates,
		Static:           static,
		SummarizeLimiter: middleware.NewRateLimiter(cfg.Web.SummarizeRate, time.Minute),
		Version:          app.BuildVersion(),
	})
	if err != nil {
		return fmt.Errorf("build web server: %w", err)
	}

	csrfKey := cfg.Web.CSRFKeyBytes()
	if len(csrfKey) == 0 {
		// Development only; Validate rejects an empty key in production.
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return fmt.Errorf("generate csrf key: %w", err)
		}
		logger.Warn("csrf_key_generated", "reason", "WEB_CSRF_KEY is not set; sessions reset on restart")
	}

	handler := middleware.Chain(srv.Routes(),
		middleware.Recovery,
		middleware.RequestID,
		middleware.Timing(collector, cfg.Web.SlowRequest),
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, cfg.Web.IsProduction(), cfg.Web.TrustedOrigins),
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting",
			"addr", cfg.Server.Addr,
			"env", cfg.Web.Env,
			"backend", cfg.Backend.BaseURL,
			"version", app.BuildVersion(),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server_stopping", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server_stopped")
	return nil
}
