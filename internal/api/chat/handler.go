package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/futig/rag-chat/internal/pkg/logger"
	"github.com/futig/rag-chat/internal/pkg/redact"
	"github.com/futig/rag-chat/internal/pkg/response"
	"github.com/futig/rag-chat/internal/pkg/stream"
	"github.com/futig/rag-chat/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// StreamErrorTrailer carries the failure reason when a stream breaks after
// the response status was sent.
const StreamErrorTrailer = "X-Stream-Error"

type Handler struct {
	usecase   ChatUsecase
	cfg       config.ChatConfig
	validator *validator.Validator
	redactor  *redact.Redactor
}

func NewHandler(
	usecase ChatUsecase,
	cfg config.ChatConfig,
	validator *validator.Validator,
	redactor *redact.Redactor,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
		redactor:  redactor,
	}
}

// Chat handles POST /api/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	conv, err := h.parseConversation(w, r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	streaming, err := h.streamMode(r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.Bool("stream", streaming))
	ctxzap.Info(ctx, "chat request",
		zap.Int("message_count", len(conv)),
		zap.Stringer("last_role", conv.Last().Role),
	)

	if !streaming {
		text, err := h.usecase.Chat(ctx, conv)
		if err != nil {
			h.handleUsecaseError(ctx, w, err)
			return
		}
		response.Text(w, http.StatusOK, text)
		return
	}

	s, err := h.usecase.ChatStream(ctx, conv)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	defer s.Close()

	h.writeStream(ctx, w, s)
}

func (h *Handler) parseConversation(w http.ResponseWriter, r *http.Request) (entity.Conversation, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodySize)

	dec := json.NewDecoder(r.Body)
	var messages []entity.ChatMessageDTO
	if err := dec.Decode(&messages); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: request body exceeds %d bytes", entity.ErrMalformedRequest, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: %w: body must be a JSON array of messages: %w", entity.ErrMalformedRequest, entity.ErrInvalidFormat, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w: unexpected data after the message array", entity.ErrMalformedRequest, entity.ErrInvalidFormat)
	}

	if err := h.validator.ValidateConversation(messages); err != nil {
		return nil, err
	}

	return toConversation(messages)
}

// streamMode reads ?stream=, falling back to the configured default.
func (h *Handler) streamMode(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("stream")
	if raw == "" {
		return h.cfg.Stream, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %w: stream must be true or false, got %q", entity.ErrMalformedRequest, entity.ErrInvalidFormat, raw)
	}
	return v, nil
}

// writeStream relays fragments as a chunked text body. The first fragment is
// read before the status is written, so a failure to start is still a 500.
func (h *Handler) writeStream(ctx context.Context, w http.ResponseWriter, s *stream.Stream) {
	first, err := s.Recv()
	if err != nil && !errors.Is(err, io.EOF) {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Trailer", StreamErrorTrailer)
	w.WriteHeader(http.StatusOK)

	if errors.Is(err, io.EOF) {
		return
	}

	rc := http.NewResponseController(w)
	fragments, written := 0, 0
	text := first
	for {
		n, err := io.WriteString(w, text)
		written += n
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			ctxzap.Warn(ctx, "client went away during stream", zap.Error(err), zap.Int("bytes", written))
			return
		}
		fragments++

		text, err = s.Recv()
		if errors.Is(err, io.EOF) {
			ctxzap.Info(ctx, "stream completed", zap.Int("fragments", fragments), zap.Int("bytes", written))
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				ctxzap.Warn(ctx, "stream cancelled by client", zap.Int("fragments", fragments))
				return
			}
			msg := h.redactor.Error(err)
			ctxzap.Error(ctx, "stream failed after start", zap.String("error", msg), zap.Int("fragments", fragments))
			w.Header().Set(StreamErrorTrailer, strings.Join(strings.Fields(msg), " "))
			return
		}
	}
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	msg := h.redactor.Error(err)
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, "chat request failed", zap.Int("status", status), zap.String("error", msg))
	} else {
		ctxzap.Warn(ctx, "chat request rejected", zap.Int("status", status), zap.String("error", msg))
	}
	response.Error(w, status, msg)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMalformedRequest):
		h.respondError(ctx, w, http.StatusBadRequest, err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, err)
	}
}
