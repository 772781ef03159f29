package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetscope/carriercheck/internal/captcha"
	"github.com/fleetscope/carriercheck/internal/config"
	"github.com/fleetscope/carriercheck/internal/logging"
	"github.com/fleetscope/carriercheck/internal/lookup"
	"github.com/fleetscope/carriercheck/internal/safer"
	"github.com/fleetscope/carriercheck/internal/server"
	"github.com/fleetscope/carriercheck/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	cleanup, err := logging.Setup(cfg)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if cfg.CaptchaSecret == config.GoogleTestSecret {
		slog.Warn("CAPTCHA_SECRET not set; using Google's test secret, which accepts every proof")
	}

	verifier, err := captcha.New(cfg.CaptchaVerifyURL, cfg.CaptchaSecret, cfg.CaptchaSuccessPath)
	if err != nil {
		slog.Error("failed to create captcha verifier", "error", err)
		os.Exit(1)
	}

	fetcherOpts := []safer.FetcherOption{
		safer.WithBaseURL(cfg.SaferBaseURL),
		safer.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
	}
	if cfg.UserAgent != "" {
		fetcherOpts = append(fetcherOpts, safer.WithUserAgent(cfg.UserAgent))
	}
	fetcher := safer.NewFetcher(fetcherOpts...)

	tokens := session.NewCodec([]byte(cfg.SessionSecret), session.WithWindow(cfg.SessionWindow))

	lookupOpts := []lookup.Option{}
	if cfg.CacheMaxItems > 0 {
		lookupOpts = append(lookupOpts, lookup.WithResultCache(cfg.CacheMaxItems, cfg.CacheTTL))
	}
	lookups := lookup.New(tokens, verifier, fetcher, lookupOpts...)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(lookups).Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("carriercheck listening", slog.String("addr", cfg.ListenAddr))

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("server stopped")
}
