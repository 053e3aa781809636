package main

import (
	"context"
	"database/sql"
	"os"

	"cyclesync/internal/app"
	"cyclesync/internal/domain/cycle"
	"cyclesync/internal/infra/config"
	idb "cyclesync/internal/infra/database"
	"cyclesync/internal/infra/logger"
	"cyclesync/internal/infra/supabase"

	"github.com/spf13/cobra"
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "cyclesync",
	Short: "Menstrual cycle tracking backed by Supabase",
	Long: `CycleSync records cycle start dates for signed-in users.

Available subcommands:
  serve  - Run the web dashboard
  cycles - List or start cycles from the terminal`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, cyclesCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// services holds the wired collaborators shared by all subcommands.
type services struct {
	cfg          *config.AppConfig
	authProvider *supabase.AuthClient
	cycleRepo    cycle.Repository
	cycleService *app.CycleService
	db           *sql.DB // nil unless DATABASE_URL is set
}

func (rt *services) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
}

// bootstrap loads configuration and wires the data-access stack.
// Missing required configuration is fatal.
func bootstrap() *services {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	rt := &services{cfg: cfg}

	// Initialize Supabase clients
	sbClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.HTTPTimeout)
	rt.authProvider = supabase.NewAuthClient(sbClient)

	// Initialize Repositories
	if cfg.DatabaseURL != "" {
		rt.db, err = idb.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		rt.cycleRepo = idb.NewPostgresCycleRepository(rt.db)
		mainLogger.Info("Cycle repository initialized (PostgreSQL).")
	} else {
		rt.cycleRepo = supabase.NewRestCycleRepository(sbClient)
		mainLogger.Info("Cycle repository initialized (Supabase REST).")
	}

	rt.cycleService = app.NewCycleService(rt.cycleRepo, logger.Component("cycle_service"))
	return rt
}
