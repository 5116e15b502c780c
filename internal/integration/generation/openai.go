package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/integration/common"
	"github.com/futig/rag-chat/internal/pkg/stream"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// OpenAIConnector generates through any OpenAI-compatible chat completions
// API (OpenAI, Groq, OpenRouter).
type OpenAIConnector struct {
	config config.GenerationConnectorConfig
	llm    contentGenerator
	roles  RoleMap
	logger *zap.Logger
}

func NewOpenAIConnector(
	cfg config.GenerationConnectorConfig,
	roles RoleMap,
	logger *zap.Logger,
) (*OpenAIConnector, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Token, "Bearer ")),
		openai.WithModel(cfg.Model),
		// the SDK sets its own Authorization header
		openai.WithHTTPClient(common.NewBaseConnector(cfg.HTTPClientConfig, logger, nil).Client()),
	}
	if cfg.Url != "" {
		opts = append(opts, openai.WithBaseURL(strings.TrimRight(cfg.Url, "/")+"/v1"))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	return &OpenAIConnector{
		config: cfg,
		llm:    llm,
		roles:  roles,
		logger: logger,
	}, nil
}

func (c *OpenAIConnector) messages(prompt *entity.AugmentedPrompt) ([]llms.MessageContent, error) {
	msgs := make([]llms.MessageContent, 0, len(prompt.History)+2)

	system, err := c.roles.Name(entity.RoleSystem)
	if err != nil {
		return nil, err
	}
	msgs = append(msgs, llms.TextParts(schema.ChatMessageType(system), prompt.System))

	for _, msg := range prompt.History {
		role, err := c.roles.Name(msg.Role)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, llms.TextParts(schema.ChatMessageType(role), msg.Content))
	}

	user, err := c.roles.Name(entity.RoleUser)
	if err != nil {
		return nil, err
	}
	msgs = append(msgs, llms.TextParts(schema.ChatMessageType(user), prompt.Query))

	return msgs, nil
}

func (c *OpenAIConnector) Generate(ctx context.Context, prompt *entity.AugmentedPrompt) (string, error) {
	msgs, err := c.messages(prompt)
	if err != nil {
		return "", fmt.Errorf("%w: openai: %w", entity.ErrGeneration, err)
	}

	ctxzap.Info(ctx, "generating completion via openai", zap.String("model", c.config.Model))

	resp, err := c.llm.GenerateContent(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("%w: openai: %w", entity.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("%w: openai: empty completion", entity.ErrGeneration)
	}

	text := resp.Choices[0].Content
	ctxzap.Info(ctx, "completion generated", zap.Int("result_length", len(text)))

	return text, nil
}

// Stream relays the client's streaming callback chunks as fragments.
func (c *OpenAIConnector) Stream(ctx context.Context, prompt *entity.AugmentedPrompt) (*stream.Stream, error) {
	msgs, err := c.messages(prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %w", entity.ErrGeneration, err)
	}

	ctxzap.Info(ctx, "streaming completion via openai", zap.String("model", c.config.Model))

	return stream.Start(ctx, func(ctx context.Context, emit stream.EmitFunc) error {
		_, err := c.llm.GenerateContent(ctx, msgs, llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			return emit(string(chunk))
		}))
		if err != nil {
			return fmt.Errorf("%w: openai: %w", entity.ErrGeneration, err)
		}
		return nil
	}), nil
}
