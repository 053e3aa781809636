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

	"cyclesync/internal/domain/notify"
	"cyclesync/internal/infra/logger"
	"cyclesync/internal/infra/scheduler"
	"cyclesync/internal/infra/telegram"
	"cyclesync/internal/infra/web"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

// serveCmd runs the web dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	Long: `Serve the CycleSync web dashboard and JSON API.

Configuration is read from the environment (and .env):
  SUPABASE_URL, SUPABASE_ANON_KEY  required
  DATABASE_URL                     optional, direct PostgreSQL access
  HTTP_ADDR                        listen address (default :8080)`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	rt := bootstrap()
	defer rt.Close()
	cfg := rt.cfg
	mainLogger := logger.Component("main")

	// Initialize optional partner notifications
	var partner notify.Notifier
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("could not create Telegram bot: %w", err)
		}
		partner = telegram.NewPartnerNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramPartnerChatID, logger.Component("partner_notifier"))
		mainLogger.Info("Telegram partner notifications enabled.")
	}

	server, err := web.NewServer(web.Options{
		Provider: rt.authProvider,
		Cycles:   rt.cycleService,
		Sessions: web.NewSessionStore(cfg.SessionSecret, cfg.Environment == "production"),
		Partner:  partner,
		Location: cfg.Location,
		Logger:   logger.Component("web"),
	})
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		mainLogger.Warn("SESSION_SECRET is not set; sessions will not survive a restart.")
	}

	// Initialize HealthScheduler
	healthScheduler := scheduler.NewHealthScheduler(rt.cycleRepo, logger.Component("scheduler"), cfg.Location, cfg.CronSpecHealth)
	if err := healthScheduler.Start(); err != nil {
		return err
	}
	defer healthScheduler.Stop()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine so it doesn't block graceful shutdown handling
	serveErr := make(chan error, 1)
	go func() {
		mainLogger.Infof("Listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	mainLogger.Info("Shutting down application...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		mainLogger.WithError(err).Error("HTTP server did not shut down cleanly")
	}
	mainLogger.Info("Application shut down gracefully.")
	return nil
}
