package index

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/futig/rag-chat/internal/entity"
)

// topMatches orders matches by descending score and keeps at most TopK.
func topMatches(matches []entity.Match) []entity.Match {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > entity.TopK {
		matches = matches[:entity.TopK]
	}
	return matches
}

// scalarMetadata keeps strings, numbers and booleans as they are and
// flattens anything else to its JSON text.
func scalarMetadata(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case nil:
			continue
		case string, bool, float64:
			out[key] = v
		case float32:
			out[key] = float64(v)
		case int:
			out[key] = float64(v)
		case int64:
			out[key] = float64(v)
		case json.Number:
			if f, err := v.Float64(); err == nil {
				out[key] = f
			} else {
				out[key] = v.String()
			}
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				out[key] = fmt.Sprint(v)
				continue
			}
			out[key] = string(raw)
		}
	}
	return out
}

// parseStringMetadata restores values from string-only metadata. Only keys
// listed in numeric are converted back to numbers; the rest stay verbatim.
func parseStringMetadata(in map[string]string, numeric map[string]struct{}) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		if _, ok := numeric[key]; ok {
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				out[key] = f
				continue
			}
		}
		out[key] = value
	}
	return out
}

func checkDimension(vec entity.EmbeddingVector, want int) error {
	if want > 0 && len(vec) != want {
		return fmt.Errorf("%w: vector has %d dimensions, index expects %d", entity.ErrRetrieval, len(vec), want)
	}
	return nil
}
