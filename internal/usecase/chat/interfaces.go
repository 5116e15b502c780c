package chat

import (
	"context"

	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/pkg/stream"
)

type Embedder interface {
	Embed(ctx context.Context, text string) (entity.EmbeddingVector, error)
}

type Retriever interface {
	Query(ctx context.Context, vec entity.EmbeddingVector) ([]entity.Match, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt *entity.AugmentedPrompt) (string, error)
	Stream(ctx context.Context, prompt *entity.AugmentedPrompt) (*stream.Stream, error)
}
