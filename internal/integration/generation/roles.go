package generation

import (
	"fmt"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
)

// RoleMap translates conversation roles into one provider's vocabulary.
type RoleMap map[entity.Role]string

func NewRoleMap(v config.RoleVocabulary) (RoleMap, error) {
	m := RoleMap{
		entity.RoleUser:      v.User,
		entity.RoleAssistant: v.Assistant,
		entity.RoleSystem:    v.System,
	}
	for role, name := range m {
		if name == "" {
			return nil, fmt.Errorf("no provider name for role %s", role)
		}
	}
	return m, nil
}

// RoleMapFor picks the provider's vocabulary from the prompt profile.
func RoleMapFor(profile *config.PromptProfile, provider string) (RoleMap, error) {
	vocab, ok := profile.Roles[provider]
	if !ok {
		return nil, fmt.Errorf("prompt profile has no roles for provider %q", provider)
	}
	return NewRoleMap(vocab)
}

func (m RoleMap) Name(r entity.Role) (string, error) {
	name, ok := m[r]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrInvalidRole, r)
	}
	return name, nil
}
