package entity

// AugmentedPrompt is the prompt sent to the generation provider.
type AugmentedPrompt struct {
	// System holds the fixed instructions.
	System string
	// Context is the serialized match list.
	Context string
	// History is the conversation without its last message.
	History []ChatMessage
	// Query is the last message content with Context appended.
	Query string
	// Matches used to build Context.
	Matches []Match
}

// ChatMessageDTO is the wire form of a chat message.
type ChatMessageDTO struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}
