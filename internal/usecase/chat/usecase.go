package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/pkg/logger"
	"github.com/futig/rag-chat/internal/pkg/stream"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase runs the embed, retrieve and generate stages for a conversation.
type ChatUsecase struct {
	embedder  Embedder
	retriever Retriever
	generator Generator
	profile   *config.PromptProfile
	logger    *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	embedder Embedder,
	retriever Retriever,
	generator Generator,
	profile *config.PromptProfile,
	logger *zap.Logger,
) *ChatUsecase {
	if profile == nil {
		profile = config.DefaultPromptProfile()
	}
	return &ChatUsecase{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		profile:   profile,
		logger:    logger,
	}
}

// Chat answers the conversation with a single completion.
func (uc *ChatUsecase) Chat(ctx context.Context, conv entity.Conversation) (string, error) {
	prompt, err := uc.augment(ctx, conv)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := uc.generator.Generate(logger.WithStage(ctx, "generate"), prompt)
	if err != nil {
		return "", stageError(entity.ErrGeneration, err)
	}

	ctxzap.Info(ctx, "completion ready", zap.Int("result_length", len(text)), logger.Elapsed(start))

	return text, nil
}

// ChatStream answers the conversation with a fragment stream. The caller
// owns the stream and must close it.
func (uc *ChatUsecase) ChatStream(ctx context.Context, conv entity.Conversation) (*stream.Stream, error) {
	prompt, err := uc.augment(ctx, conv)
	if err != nil {
		return nil, err
	}

	s, err := uc.generator.Stream(logger.WithStage(ctx, "generate"), prompt)
	if err != nil {
		return nil, stageError(entity.ErrGeneration, err)
	}

	return s, nil
}

// augment embeds the last message, retrieves its matches and builds the
// prompt. It stops at the first failing stage.
func (uc *ChatUsecase) augment(ctx context.Context, conv entity.Conversation) (*entity.AugmentedPrompt, error) {
	if len(conv) == 0 {
		return nil, fmt.Errorf("%w: empty conversation", entity.ErrMalformedRequest)
	}

	start := time.Now()
	vec, err := uc.embedder.Embed(logger.WithStage(ctx, "embed"), conv.Last().Content)
	if err != nil {
		return nil, stageError(entity.ErrEmbedding, err)
	}
	ctxzap.Debug(ctx, "query embedded", zap.Int("dimensions", len(vec)), logger.Elapsed(start))

	start = time.Now()
	matches, err := uc.retriever.Query(logger.WithStage(ctx, "retrieve"), vec)
	if err != nil {
		return nil, stageError(entity.ErrRetrieval, err)
	}
	if len(matches) > entity.TopK {
		matches = matches[:entity.TopK]
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	ctxzap.Info(ctx, "matches retrieved", zap.Strings("match_ids", ids), logger.Elapsed(start))

	return BuildPrompt(uc.profile, conv, matches), nil
}

func stageError(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
