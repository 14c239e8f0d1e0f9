package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/shelfmate/shelfmate/internal/config"
	"github.com/shelfmate/shelfmate/internal/core"
	"github.com/shelfmate/shelfmate/internal/providers/llm"
	"github.com/shelfmate/shelfmate/internal/service/books"
	"github.com/shelfmate/shelfmate/internal/service/chat"
	"github.com/shelfmate/shelfmate/internal/storage/sqlite"
	"github.com/shelfmate/shelfmate/internal/store"
	httptransport "github.com/shelfmate/shelfmate/internal/transport/http"
	"github.com/shelfmate/shelfmate/pkg/log"
	"github.com/shelfmate/shelfmate/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	geminiCfg := config.NewGeminiConfig(ctx)

	// 2. In-memory stores
	cache := store.NewRecordCache()
	sessions := store.NewConversationStore()
	builder := chat.NewContextBuilder(sessions)

	// 3. Optional archive
	var archive core.Archive
	if appCfg.ArchiveEnabled {
		db, err := sqlite.NewDB(ctx, archivePath(appCfg))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize archive storage")
		}
		services = append(services, srv.NewCleanup(db.Close))
		archive = sqlite.NewArchive(db)
	}

	// 4. Model provider
	model := llm.NewGemini(geminiCfg)

	// 5. Book service
	svc := books.NewService(appCfg, model, cache, sessions, builder, archive)

	// 6. HTTP transport
	server := httptransport.NewServer(appCfg, svc, sessions, builder, geminiCfg.Model, debug || config.IsDebug())
	services = append(services, server)

	return services
}

func archivePath(cfg *config.AppConfig) string {
	if cfg.ArchivePath != "" {
		return cfg.ArchivePath
	}
	return filepath.Join(config.GetRuntimePath(), "archive.db")
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
