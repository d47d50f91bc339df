package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2008zhum-boop/radar-ai/app/api"
	"github.com/2008zhum-boop/radar-ai/app/cfg"
	"github.com/2008zhum-boop/radar-ai/app/database"
	"github.com/2008zhum-boop/radar-ai/app/harvest"
	"github.com/2008zhum-boop/radar-ai/app/monitor"
	"github.com/2008zhum-boop/radar-ai/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Radar AI server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	clientRepo := database.NewClientRepository(db)
	mentionRepo := database.NewMentionRepository(db)
	blacklistRepo := database.NewBlacklistRepository(db)

	lexicon := monitor.DefaultLexicon()
	if appCfg.LexiconFile != "" {
		lexicon, err = monitor.LoadLexicon(appCfg.LexiconFile)
		if err != nil {
			slog.Error("Failed to load lexicon", "path", appCfg.LexiconFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Lexicon overrides loaded", "path", appCfg.LexiconFile)
	}

	scorer := monitor.NewLexiconScorer(lexicon)
	pipeline := monitor.NewPipeline(clientRepo, mentionRepo, blacklistRepo, scorer, lexicon, appCfg.WorkerCount)
	registry := monitor.NewRegistry(clientRepo)
	statsService := monitor.NewStatsService(mentionRepo, lexicon)

	sources, err := harvest.LoadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Warn("No harvest sources loaded, continuing with API-only ingestion", "path", appCfg.SourcesFile, "error", err)
	} else {
		slog.Info("Harvest sources loaded", "count", len(sources))
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	harvester := harvest.NewHarvester(httpClient, appCfg.UserAgent)

	scheduler := tasks.NewScheduler(sources, harvester, pipeline)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)

	handler := api.NewHandler(registry, pipeline, statsService, mentionRepo, blacklistRepo, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
