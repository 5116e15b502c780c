package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/rag-chat/internal/api"
	chatapi "github.com/futig/rag-chat/internal/api/chat"
	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/pkg/redact"
	"github.com/futig/rag-chat/internal/pkg/validator"
	"github.com/futig/rag-chat/internal/usecase/chat"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	return BuildWithConfig(context.Background(), cfg, logger)
}

// BuildWithConfig wires the application from an already loaded config.
func BuildWithConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	// Initialize external service connectors (with mock support)
	embedder, err := setupEmbedder(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup embedder: %w", err)
	}

	retriever, err := setupRetriever(ctx, cfg, embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("setup retriever: %w", err)
	}

	generator, err := setupGenerator(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup generator: %w", err)
	}
	logger.Info("Connectors initialized",
		zap.String("embedding_provider", cfg.EmbeddingConnectorCfg.Provider),
		zap.String("index_provider", cfg.IndexConnectorCfg.Provider),
		zap.String("generation_provider", cfg.GenerationConnectorCfg.Provider),
	)

	// Initialize use cases
	chatUC := chat.NewUsecase(embedder, retriever, generator, cfg.Prompt, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC, cfg.ChatCfg, validator.NewValidator(), redact.New(cfg.Secrets()...))
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, logger)
	logger.Info("HTTP router configured")

	// No WriteTimeout: it would cut long streamed answers.
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}
