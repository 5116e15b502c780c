package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/pkg/stream"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers with a canned summary of the retrieved matches.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) answer(prompt *entity.AugmentedPrompt) string {
	names := make([]string, 0, len(prompt.Matches))
	for _, match := range prompt.Matches {
		names = append(names, match.ID)
	}
	if len(names) == 0 {
		return "I could not find any relevant reviews."
	}
	return fmt.Sprintf("Based on %d reviews (%s), students generally describe these professors as engaged and fair.",
		len(names), strings.Join(names, ", "))
}

func (m *MockConnector) Generate(ctx context.Context, prompt *entity.AugmentedPrompt) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating completion", zap.Int("history", len(prompt.History)))
	return m.answer(prompt), nil
}

func (m *MockConnector) Stream(ctx context.Context, prompt *entity.AugmentedPrompt) (*stream.Stream, error) {
	ctxzap.Info(ctx, "[MOCK] streaming completion", zap.Int("history", len(prompt.History)))

	words := strings.SplitAfter(m.answer(prompt), " ")
	return stream.FromSlice(ctx, words), nil
}
