package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ivanoskov/deal_bot/internal/bot"
	"github.com/ivanoskov/deal_bot/internal/config"
	"github.com/ivanoskov/deal_bot/internal/logger"
	"github.com/ivanoskov/deal_bot/internal/repository"
	"github.com/ivanoskov/deal_bot/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.NewStructured(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	copyText, err := service.LoadCopy(cfg.CopyFile)
	if err != nil {
		return err
	}

	stats := service.NewStats()
	dispatcher := service.NewDispatcher(repository.NewMemorySessionStore(), copyText, cfg.OperatorID, stats, log)

	b, err := bot.NewBot(bot.Options{
		Token:       cfg.TelegramToken,
		OperatorID:  cfg.OperatorID,
		Workers:     cfg.Workers,
		PollTimeout: cfg.PollTimeout,
		HTTPTimeout: cfg.SendTimeout,
	}, dispatcher, stats, log)
	if err != nil {
		return err
	}

	if cfg.ArchiveEnabled() {
		repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return err
		}
		b.WithArchive(repo)
		log.Info("escalation archive enabled", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server failed", nil)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("metrics server listening", logger.Fields{"addr": cfg.MetricsAddr})
	}

	if err := b.Start(ctx); err != nil {
		return fmt.Errorf("bot stopped: %w", err)
	}
	log.Info("bot stopped", nil)
	return nil
}
