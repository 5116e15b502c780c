package entity

import (
	"fmt"
	"strings"
)

// Role is the author of a chat message.
type Role int

const (
	RoleUser Role = iota + 1
	RoleAssistant
	RoleSystem
)

var roleNames = map[Role]string{
	RoleUser:      "user",
	RoleAssistant: "assistant",
	RoleSystem:    "system",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole converts a wire role name into a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

type ChatMessage struct {
	Role    Role
	Content string
}

// Conversation is an ordered, non-empty list of messages.
type Conversation []ChatMessage

// Last returns the active query message.
func (c Conversation) Last() ChatMessage {
	return c[len(c)-1]
}

// History returns every message except the last one.
func (c Conversation) History() []ChatMessage {
	return c[:len(c)-1]
}
