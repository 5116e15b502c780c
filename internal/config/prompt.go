package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptProfile holds the fixed instructions and per-provider role vocabularies.
type PromptProfile struct {
	SystemPrompt  string                    `yaml:"system_prompt"`
	ContextHeader string                    `yaml:"context_header"`
	Roles         map[string]RoleVocabulary `yaml:"roles"`
}

// RoleVocabulary is the provider-side name of each conversation role.
type RoleVocabulary struct {
	User      string `yaml:"user"`
	Assistant string `yaml:"assistant"`
	System    string `yaml:"system"`
}

const defaultSystemPrompt = `You are an AI assistant designed to help evaluate and provide feedback on teacher performance based on student ratings and comments. Your role is to analyze the data provided, identify patterns and trends, and offer constructive insights to help teachers improve their teaching methods and student engagement.

You will be given some relevant professor reviews from our database. Use this information to inform your response, but also feel free to generalize and provide broader insights when appropriate.

Key Responsibilities:
- Analyze numerical ratings across various teaching aspects (e.g., clarity, engagement, fairness).
- Interpret qualitative feedback from student comments.
- Identify strengths and areas for improvement in teaching performance.
- Provide actionable recommendations for professional development.
- Maintain objectivity and fairness in your assessments.
- Respect student and teacher privacy by not identifying specific individuals beyond what's provided in the reviews.`

const defaultContextHeader = "Relevant professor reviews:"

var defaultRoles = map[string]RoleVocabulary{
	ProviderGemini: {User: "user", Assistant: "model", System: "user"},
	// langchaingo chat message types
	ProviderOpenAI: {User: "human", Assistant: "ai", System: "system"},
}

// DefaultPromptProfile returns the built-in profile.
func DefaultPromptProfile() *PromptProfile {
	roles := make(map[string]RoleVocabulary, len(defaultRoles))
	for provider, vocab := range defaultRoles {
		roles[provider] = vocab
	}
	return &PromptProfile{
		SystemPrompt:  defaultSystemPrompt,
		ContextHeader: defaultContextHeader,
		Roles:         roles,
	}
}

// LoadPromptProfile reads a YAML profile and fills every missing value from
// the built-in defaults. An empty path yields the defaults.
func LoadPromptProfile(path string) (*PromptProfile, error) {
	profile := DefaultPromptProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var fromFile PromptProfile
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parse prompt file %s: %w", path, err)
	}

	if s := strings.TrimSpace(fromFile.SystemPrompt); s != "" {
		profile.SystemPrompt = s
	}
	if s := strings.TrimSpace(fromFile.ContextHeader); s != "" {
		profile.ContextHeader = s
	}
	for provider, vocab := range fromFile.Roles {
		provider = strings.ToLower(provider)
		base := profile.Roles[provider]
		if vocab.User != "" {
			base.User = vocab.User
		}
		if vocab.Assistant != "" {
			base.Assistant = vocab.Assistant
		}
		if vocab.System != "" {
			base.System = vocab.System
		}
		if base.User == "" || base.Assistant == "" || base.System == "" {
			return nil, fmt.Errorf("prompt file %s: roles.%s must name user, assistant and system", path, provider)
		}
		profile.Roles[provider] = base
	}

	return profile, nil
}
