package main

import (
	"context"
	stdlog "log"

	"github.com/joho/godotenv"

	"github.com/giftgenius/giftgenius-api/internal/archive"
	"github.com/giftgenius/giftgenius-api/internal/concierge"
	"github.com/giftgenius/giftgenius-api/internal/config"
	"github.com/giftgenius/giftgenius-api/internal/flow"
	"github.com/giftgenius/giftgenius-api/internal/history"
	"github.com/giftgenius/giftgenius-api/internal/logger"
	"github.com/giftgenius/giftgenius-api/internal/server"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		stdlog.Fatalf("Failed to create logger: %v", err)
	}
	defer log.Sync()

	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; generation requests will fail until it is configured")
	}

	ctx := context.Background()
	geminiClient, err := concierge.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("Failed to create Gemini client", "error", err)
	}
	defer geminiClient.Close()

	hist := history.NewStore(cfg.HistoryPath)
	log.Info("history loaded", "entries", len(hist.Load()), "path", cfg.HistoryPath)

	var arch archive.Store
	if cfg.ArchivePath != "" {
		sqliteStore, err := archive.OpenSQLite(cfg.ArchivePath)
		if err != nil {
			log.Fatal("Failed to open archive store", "error", err)
		}
		arch = sqliteStore
		log.Info("shared-list archive enabled", "path", cfg.ArchivePath)
	}

	// The landing screen lives in the client; the server's machine goes
	// straight to Idle so the first submit is reachable.
	machine := flow.NewMachine()
	_ = machine.Start()

	handler := server.NewHandler(geminiClient, hist, arch, machine, cfg.BaseURL, cfg.RequestTimeout, log)
	router := server.NewRouter(handler, log, cfg.AllowOrigins)

	log.Info("gift concierge starting", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
