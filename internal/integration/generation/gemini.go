package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/integration/common"
	"github.com/futig/rag-chat/internal/pkg/stream"
	pkghttp "github.com/futig/rag-chat/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// GeminiConnector talks to the Gemini generateContent REST API.
type GeminiConnector struct {
	config    config.GenerationConnectorConfig
	connector *pkghttp.Connector
	roles     RoleMap
	logger    *zap.Logger
}

func NewGeminiConnector(
	cfg config.GenerationConnectorConfig,
	roles RoleMap,
	logger *zap.Logger,
) *GeminiConnector {
	return &GeminiConnector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, pkghttp.WithAPIKeyHeader("x-goog-api-key", cfg.Token)),
		config:    cfg,
		roles:     roles,
		logger:    logger,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type geminiGenerateResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *geminiError `json:"error"`
}

func (r *geminiGenerateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func (c *GeminiConnector) buildRequest(prompt *entity.AugmentedPrompt) (*geminiGenerateRequest, error) {
	req := &geminiGenerateRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: prompt.System}}},
		Contents:          make([]geminiContent, 0, len(prompt.History)+1),
	}

	for _, msg := range prompt.History {
		role, err := c.roles.Name(msg.Role)
		if err != nil {
			return nil, err
		}
		req.Contents = append(req.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: msg.Content}}})
	}

	userRole, err := c.roles.Name(entity.RoleUser)
	if err != nil {
		return nil, err
	}
	req.Contents = append(req.Contents, geminiContent{Role: userRole, Parts: []geminiPart{{Text: prompt.Query}}})

	return req, nil
}

// Generate returns the whole completion in one response.
func (c *GeminiConnector) Generate(ctx context.Context, prompt *entity.AugmentedPrompt) (string, error) {
	req, err := c.buildRequest(prompt)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", entity.ErrGeneration, err)
	}

	ctxzap.Info(ctx, "generating completion via gemini", zap.String("model", c.config.Model))

	var resp geminiGenerateResponse
	endpoint := fmt.Sprintf("/v1beta/models/%s:generateContent", c.config.Model)
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return "", fmt.Errorf("%w: gemini: %w", entity.ErrGeneration, err)
	}

	if err := resp.err(); err != nil {
		return "", fmt.Errorf("%w: gemini: %w", entity.ErrGeneration, err)
	}

	text := resp.text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini: empty completion", entity.ErrGeneration)
	}

	ctxzap.Info(ctx, "completion generated", zap.Int("result_length", len(text)))

	return text, nil
}

// Stream opens a server-sent-events completion and relays its text parts.
func (c *GeminiConnector) Stream(ctx context.Context, prompt *entity.AugmentedPrompt) (*stream.Stream, error) {
	req, err := c.buildRequest(prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %w", entity.ErrGeneration, err)
	}

	ctxzap.Info(ctx, "streaming completion via gemini", zap.String("model", c.config.Model))

	endpoint := fmt.Sprintf("/v1beta/models/%s:streamGenerateContent", c.config.Model)

	return stream.Start(ctx, func(ctx context.Context, emit stream.EmitFunc) error {
		body, err := c.connector.OpenStream(ctx, http.MethodPost, endpoint, req, pkghttp.WithQuery("alt", "sse"))
		if err != nil {
			return fmt.Errorf("%w: gemini: %w", entity.ErrGeneration, err)
		}
		defer body.Close()

		err = readSSE(ctx, body, func(data []byte) error {
			var chunk geminiGenerateResponse
			if err := json.Unmarshal(data, &chunk); err != nil {
				return fmt.Errorf("decode stream chunk: %w", err)
			}
			if chunk.Error != nil {
				return chunk.err()
			}
			if err := emit(chunk.text()); err != nil {
				return err
			}
			return chunk.err()
		})
		if err != nil {
			return fmt.Errorf("%w: gemini: %w", entity.ErrGeneration, err)
		}
		return nil
	}), nil
}

// abortedFinishReasons end a completion before the model finished its answer.
// STOP and MAX_TOKENS are regular endings.
var abortedFinishReasons = map[string]struct{}{
	"SAFETY":                  {},
	"RECITATION":              {},
	"LANGUAGE":                {},
	"BLOCKLIST":               {},
	"PROHIBITED_CONTENT":      {},
	"SPII":                    {},
	"IMAGE_SAFETY":            {},
	"MALFORMED_FUNCTION_CALL": {},
	"OTHER":                   {},
}

func (r *geminiGenerateResponse) err() error {
	if r.Error != nil {
		return fmt.Errorf("%s (%d): %s", r.Error.Status, r.Error.Code, r.Error.Message)
	}
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return errors.New("prompt blocked: " + r.PromptFeedback.BlockReason)
	}
	for _, c := range r.Candidates {
		if _, ok := abortedFinishReasons[c.FinishReason]; ok {
			return errors.New("completion stopped: " + c.FinishReason)
		}
	}
	return nil
}
