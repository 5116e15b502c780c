package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/futig/rag-chat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockDimensions = 8

// MockConnector derives a deterministic vector from the text, so equal texts
// embed to equal vectors.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Embed(ctx context.Context, text string) (entity.EmbeddingVector, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input text", entity.ErrEmbedding)
	}

	ctxzap.Info(ctx, "[MOCK] embedding text", zap.Int("text_length", len(text)))

	vec := make(entity.EmbeddingVector, mockDimensions)
	for i := range vec {
		h := fnv.New32a()
		fmt.Fprintf(h, "%d:%s", i, strings.ToLower(text))
		vec[i] = float32(h.Sum32()%1000)/1000 + 0.001
	}
	return vec, nil
}
