package index

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/integration/common"
	pkghttp "github.com/futig/rag-chat/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const pineconeAPIVersion = "2024-07"

// PineconeConnector queries a Pinecone index through its data-plane REST API.
// config.Url is the index host.
type PineconeConnector struct {
	config    config.IndexConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewPineconeConnector(
	cfg config.IndexConnectorConfig,
	logger *zap.Logger,
) *PineconeConnector {
	return &PineconeConnector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, pkghttp.WithAPIKeyHeader("Api-Key", cfg.Token)),
		config:    cfg,
		logger:    logger,
	}
}

type pineconeQueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type pineconeMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type pineconeQueryResponse struct {
	Matches   *[]pineconeMatch `json:"matches"`
	Namespace string           `json:"namespace"`
}

// Query returns the TopK nearest reviews with their metadata.
func (c *PineconeConnector) Query(ctx context.Context, vec entity.EmbeddingVector) ([]entity.Match, error) {
	if err := checkDimension(vec, c.config.Dimension); err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "querying pinecone index",
		zap.String("namespace", c.config.Namespace),
		zap.Int("dimensions", len(vec)),
	)

	req := pineconeQueryRequest{
		Vector:          vec,
		TopK:            entity.TopK,
		IncludeMetadata: true,
		Namespace:       c.config.Namespace,
	}

	var resp pineconeQueryResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, "/query", req, &resp,
		pkghttp.WithHeader("X-Pinecone-API-Version", pineconeAPIVersion),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: pinecone: %w", entity.ErrRetrieval, err)
	}

	if resp.Matches == nil {
		return nil, fmt.Errorf("%w: pinecone: response has no matches field", entity.ErrRetrieval)
	}

	matches := make([]entity.Match, 0, len(*resp.Matches))
	for _, m := range *resp.Matches {
		matches = append(matches, entity.Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: scalarMetadata(m.Metadata),
		})
	}

	matches = topMatches(matches)
	ctxzap.Debug(ctx, "pinecone matches received", zap.Int("match_count", len(matches)))

	return matches, nil
}
