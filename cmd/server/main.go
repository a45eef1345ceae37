package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "flashdeck",
	Short: "FlashDeck flashcard server",
	Long: `FlashDeck serves the flashcard JSON API: decks, cards, study queues,
study sessions and progress statistics.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  migrate,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads and validates configuration and installs the default logger.
func setup() (config.Config, *logger.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)
	return cfg, log, nil
}

func migrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	database, err := db.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	log.Info("migrations applied")
	return database.Close()
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("===========================================")
	log.Info("FlashDeck Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("token_ttl_hours=%d", cfg.TokenTTLHours)
	log.Debug("max_import_rows=%d", cfg.MaxImportRows)
	log.Debug("study_batch_size=%d", cfg.StudyBatchSize)
	log.Debug("max_upload_mb=%d", cfg.MaxUploadMB)

	database, err := db.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		log.Debug("closing database connection")
		_ = database.Close()
	}()

	// Repositories
	users := sqlite.NewUserRepository(database.DB)
	folders := sqlite.NewFolderRepository(database.DB)
	decks := sqlite.NewDeckRepository(database.DB)
	cards := sqlite.NewCardRepository(database.DB)
	tags := sqlite.NewTagRepository(database.DB)
	sessions := sqlite.NewStudySessionRepository(database.DB)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL())

	srv := &api.Server{
		DB:             database,
		UserService:    services.NewUserService(users, tokens),
		FolderService:  services.NewFolderService(folders),
		DeckService:    services.NewDeckService(decks, folders, tags, cards),
		CardService:    services.NewCardService(cards, decks),
		TagService:     services.NewTagService(tags),
		StudyService:   services.NewStudyService(cards, decks, folders, users, cfg.StudyBatchSize),
		StatsService:   services.NewStatsService(sessions, decks, folders, cfg.Location(), time.Now),
		ImportService:  services.NewImportService(cards, decks, cfg.MaxImportRows),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		SecureCookies:  cfg.SecureCookies,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	case err, ok := <-serverErr:
		if ok {
			log.Error("HTTP server error: %v", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("FlashDeck Server Stopped")
	log.Info("===========================================")
	return nil
}
