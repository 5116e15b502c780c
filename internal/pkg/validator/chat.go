package validator

import (
	"fmt"

	"github.com/futig/rag-chat/internal/entity"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateConversation checks that the request is a non-empty list of
// messages that all carry a role and a content field.
func (v *Validator) ValidateConversation(messages []entity.ChatMessageDTO) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: conversation must contain at least one message", entity.ErrMalformedRequest)
	}

	for i, msg := range messages {
		if msg.Role == nil {
			return fmt.Errorf("%w: %w: messages[%d].role", entity.ErrMalformedRequest, entity.ErrMissingField, i)
		}
		if msg.Content == nil {
			return fmt.Errorf("%w: %w: messages[%d].content", entity.ErrMalformedRequest, entity.ErrMissingField, i)
		}
		if _, err := entity.ParseRole(*msg.Role); err != nil {
			return fmt.Errorf("%w: messages[%d]: %w", entity.ErrMalformedRequest, i, err)
		}
	}

	return nil
}
