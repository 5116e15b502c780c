package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/integration/common"
	pkghttp "github.com/futig/rag-chat/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) (*Connector, error) {
	var auth pkghttp.HttpOpts
	switch cfg.Provider {
	case config.ProviderGemini:
		auth = pkghttp.WithAPIKeyHeader("x-goog-api-key", cfg.Token)
	case config.ProviderOpenAI:
		auth = pkghttp.WithAuthToken(cfg.Token)
	case config.ProviderOllama:
		if cfg.Token != "" {
			auth = pkghttp.WithAuthToken(cfg.Token)
		}
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}

	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, auth),
		config:    cfg,
		logger:    logger,
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type openAIEmbedRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	EncodingFormat string `json:"encoding_format"`
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// Embed returns the embedding of text from the configured provider.
func (c *Connector) Embed(ctx context.Context, text string) (entity.EmbeddingVector, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input text", entity.ErrEmbedding)
	}

	endpoint, body := c.buildRequest(text)

	ctxzap.Debug(ctx, "requesting embedding",
		zap.String("provider", c.config.Provider),
		zap.String("model", c.config.Model),
		zap.Int("text_length", len(text)),
	)

	var raw json.RawMessage
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrEmbedding, c.config.Provider, err)
	}

	vec, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrEmbedding, c.config.Provider, err)
	}

	ctxzap.Debug(ctx, "embedding received", zap.Int("dimensions", len(vec)))

	return vec, nil
}

func (c *Connector) buildRequest(text string) (string, any) {
	switch c.config.Provider {
	case config.ProviderGemini:
		return fmt.Sprintf("/v1beta/models/%s:embedContent", c.config.Model), geminiEmbedRequest{
			Model:    "models/" + c.config.Model,
			Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
			TaskType: "RETRIEVAL_QUERY",
		}
	case config.ProviderOpenAI:
		return "/v1/embeddings", openAIEmbedRequest{
			Model:          c.config.Model,
			Input:          text,
			EncodingFormat: "float",
		}
	default:
		return "/api/embeddings", ollamaEmbedRequest{
			Model:  c.config.Model,
			Prompt: text,
		}
	}
}
