package index

import (
	"context"

	"github.com/futig/rag-chat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns a fixed set of reviews regardless of the vector.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Query(ctx context.Context, vec entity.EmbeddingVector) ([]entity.Match, error) {
	ctxzap.Info(ctx, "[MOCK] querying index", zap.Int("dimensions", len(vec)))

	return topMatches([]entity.Match{
		{
			ID:    "Dr. Emily Carter",
			Score: 0.91,
			Metadata: map[string]any{
				"review":  "Explains difficult concepts clearly and is always available in office hours.",
				"subject": "Calculus",
				"stars":   5.0,
			},
		},
		{
			ID:    "Prof. Alan Reed",
			Score: 0.84,
			Metadata: map[string]any{
				"review":  "Lectures are engaging but grading is harsh.",
				"subject": "Physics",
				"stars":   3.0,
			},
		},
		{
			ID:    "Dr. Maria Gonzales",
			Score: 0.77,
			Metadata: map[string]any{
				"review":  "Well organized course with fair exams.",
				"subject": "Chemistry",
				"stars":   4.0,
			},
		},
		{
			ID:    "Prof. John Lee",
			Score: 0.52,
			Metadata: map[string]any{
				"review":  "Rarely answers emails.",
				"subject": "History",
				"stars":   2.0,
			},
		},
	}), nil
}
