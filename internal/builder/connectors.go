package builder

import (
	"context"
	"fmt"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/integration/embedding"
	"github.com/futig/rag-chat/internal/integration/generation"
	"github.com/futig/rag-chat/internal/integration/index"
	"github.com/futig/rag-chat/internal/usecase/chat"
	"go.uber.org/zap"
)

func setupEmbedder(cfg *config.Config, logger *zap.Logger) (chat.Embedder, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock embedding connector")
		return embedding.NewMockConnector(logger), nil
	}
	return embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
}

// setupRetriever builds the configured index. The local index stays in use
// with mocks enabled, since it needs nothing outside the process.
func setupRetriever(ctx context.Context, cfg *config.Config, embedder chat.Embedder, logger *zap.Logger) (chat.Retriever, error) {
	idxCfg := cfg.IndexConnectorCfg

	if idxCfg.Provider == config.ProviderLocal && idxCfg.SeedFile != "" {
		seed, err := index.LoadSeed(idxCfg.SeedFile)
		if err != nil {
			return nil, err
		}
		return index.NewLocalIndex(ctx, seed.Reviews, embedder, idxCfg.Dimension, logger)
	}

	if cfg.EnableMocks {
		logger.Info("Using mock index connector")
		return index.NewMockConnector(logger), nil
	}

	switch idxCfg.Provider {
	case config.ProviderPinecone:
		return index.NewPineconeConnector(idxCfg, logger), nil
	case config.ProviderWeaviate:
		return index.NewWeaviateConnector(idxCfg, logger)
	default:
		return nil, fmt.Errorf("unknown index provider %q", idxCfg.Provider)
	}
}

func setupGenerator(cfg *config.Config, logger *zap.Logger) (chat.Generator, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock generation connector")
		return generation.NewMockConnector(logger), nil
	}

	genCfg := cfg.GenerationConnectorCfg
	roles, err := generation.RoleMapFor(cfg.Prompt, genCfg.Provider)
	if err != nil {
		return nil, err
	}

	switch genCfg.Provider {
	case config.ProviderGemini:
		return generation.NewGeminiConnector(genCfg, roles, logger), nil
	case config.ProviderOpenAI:
		return generation.NewOpenAIConnector(genCfg, roles, logger)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", genCfg.Provider)
	}
}
