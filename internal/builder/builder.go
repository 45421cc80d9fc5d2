package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/docsearch-backend/internal/api"
	documentapi "github.com/futig/docsearch-backend/internal/api/document"
	evaluationapi "github.com/futig/docsearch-backend/internal/api/evaluation"
	searchapi "github.com/futig/docsearch-backend/internal/api/search"
	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/pkg/logger"
	"github.com/futig/docsearch-backend/internal/telegram"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	core, err := NewCore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	handlers := api.Handlers{
		Search:     searchapi.NewHandler(core.Search),
		Document:   documentapi.NewHandler(core.Documents, cfg.FileUploadCfg),
		Evaluation: evaluationapi.NewHandler(core.Evaluation),
	}
	log.Info("API handlers initialized")

	router := api.SetupRouter(handlers, core.Registry, log)
	log.Info("HTTP router configured")

	// Evaluation runs may take up to the router's two-minute timeout.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 130 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		core:   core,
		logger: log,
	}, nil
}

// BuildTelegramBot creates the Telegram bot answering questions for the
// configured organization. The caller closes the returned core after the
// bot stops.
func BuildTelegramBot() (telegram.Bot, *Core, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, fmt.Errorf("telegram configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	core, err := NewCore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, core.Search, log)
	if err != nil {
		core.Close()
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, core, nil
}

// BuildCore loads the named environment and wires the pipeline without any
// outer surface. Used by the CLI.
func BuildCore(ctx context.Context, environment string) (*Core, error) {
	cfg, err := config.Load(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	return NewCore(ctx, cfg, log)
}
