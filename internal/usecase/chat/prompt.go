package chat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
)

// Metadata keys rendered in a fixed order ahead of the rest.
var contextKeys = []struct {
	key   string
	label string
}{
	{"review", "Review"},
	{"subject", "Subject"},
	{"stars", "Stars"},
}

// BuildPrompt assembles the generation prompt from the conversation and the
// retrieved matches. conv must not be empty.
func BuildPrompt(profile *config.PromptProfile, conv entity.Conversation, matches []entity.Match) *entity.AugmentedPrompt {
	rendered := renderContext(profile.ContextHeader, matches)

	return &entity.AugmentedPrompt{
		System:  profile.SystemPrompt,
		Context: rendered,
		History: conv.History(),
		Query:   conv.Last().Content + "\n\n" + rendered,
		Matches: matches,
	}
}

func renderContext(header string, matches []entity.Match) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")

	for _, m := range matches {
		sb.WriteString("\nProfessor: ")
		sb.WriteString(m.ID)
		sb.WriteString("\n")

		known := make(map[string]struct{}, len(contextKeys))
		for _, k := range contextKeys {
			known[k.key] = struct{}{}
			fmt.Fprintf(&sb, "%s: %s\n", k.label, formatValue(m.Metadata[k.key]))
		}

		extra := make([]string, 0, len(m.Metadata))
		for k := range m.Metadata {
			if _, ok := known[k]; !ok && k != "professor" {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			fmt.Fprintf(&sb, "%s: %s\n", k, formatValue(m.Metadata[k]))
		}
	}

	return sb.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
