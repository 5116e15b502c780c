package chat

import (
	"testing"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	profile := &config.PromptProfile{SystemPrompt: "sys", ContextHeader: "Relevant professor reviews:"}
	conv := entity.Conversation{
		{Role: entity.RoleSystem, Content: "be brief"},
		{Role: entity.RoleUser, Content: "best calculus teacher?"},
	}
	matches := []entity.Match{
		{
			ID:    "Dr. Emily Carter",
			Score: 0.9,
			Metadata: map[string]any{
				"review":     "Clear.",
				"subject":    "Calculus",
				"stars":      4.5,
				"university": "MIT",
				"online":     true,
				"professor":  "Dr. Emily Carter",
			},
		},
		{ID: "Prof. Alan Reed", Score: 0.5},
	}

	prompt := BuildPrompt(profile, conv, matches)

	want := "Relevant professor reviews:\n" +
		"\nProfessor: Dr. Emily Carter\nReview: Clear.\nSubject: Calculus\nStars: 4.5\nonline: true\nuniversity: MIT\n" +
		"\nProfessor: Prof. Alan Reed\nReview: \nSubject: \nStars: \n"

	assert.Equal(t, want, prompt.Context)
	assert.Equal(t, "sys", prompt.System)
	assert.Equal(t, []entity.ChatMessage{{Role: entity.RoleSystem, Content: "be brief"}}, prompt.History)
	assert.Equal(t, "best calculus teacher?\n\n"+want, prompt.Query)
	assert.Equal(t, matches, prompt.Matches)
}

func TestBuildPrompt_NoMatches(t *testing.T) {
	prompt := BuildPrompt(config.DefaultPromptProfile(), entity.Conversation{{Role: entity.RoleUser, Content: "hi"}}, nil)

	assert.Equal(t, "Relevant professor reviews:\n", prompt.Context)
	assert.Empty(t, prompt.History)
}
