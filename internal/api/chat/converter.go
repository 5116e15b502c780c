package chat

import (
	"fmt"

	"github.com/futig/rag-chat/internal/entity"
)

// toConversation converts validated wire messages into a Conversation
func toConversation(messages []entity.ChatMessageDTO) (entity.Conversation, error) {
	conv := make(entity.Conversation, 0, len(messages))
	for i, msg := range messages {
		role, err := entity.ParseRole(*msg.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: messages[%d]: %w", entity.ErrMalformedRequest, i, err)
		}
		conv = append(conv, entity.ChatMessage{Role: role, Content: *msg.Content})
	}
	return conv, nil
}
