package chat

import (
	"context"

	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/pkg/stream"
)

type ChatUsecase interface {
	Chat(ctx context.Context, conv entity.Conversation) (string, error)
	ChatStream(ctx context.Context, conv entity.Conversation) (*stream.Stream, error)
}
