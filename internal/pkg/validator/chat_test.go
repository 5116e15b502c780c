package validator

import (
	"testing"

	"github.com/futig/rag-chat/internal/entity"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestValidateConversation(t *testing.T) {
	tests := []struct {
		name     string
		messages []entity.ChatMessageDTO
		wantErr  error
	}{
		{
			name:     "empty conversation",
			messages: nil,
			wantErr:  entity.ErrMalformedRequest,
		},
		{
			name:     "missing role",
			messages: []entity.ChatMessageDTO{{Content: strPtr("hi")}},
			wantErr:  entity.ErrMissingField,
		},
		{
			name:     "missing content",
			messages: []entity.ChatMessageDTO{{Role: strPtr("user")}},
			wantErr:  entity.ErrMissingField,
		},
		{
			name:     "unknown role",
			messages: []entity.ChatMessageDTO{{Role: strPtr("tool"), Content: strPtr("hi")}},
			wantErr:  entity.ErrInvalidRole,
		},
		{
			name: "valid conversation",
			messages: []entity.ChatMessageDTO{
				{Role: strPtr("system"), Content: strPtr("be nice")},
				{Role: strPtr("user"), Content: strPtr("who teaches calculus?")},
				{Role: strPtr("assistant"), Content: strPtr("Dr. Smith")},
				{Role: strPtr("User"), Content: strPtr("is she good?")},
			},
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateConversation(tt.messages)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, entity.ErrMalformedRequest)
		})
	}
}
