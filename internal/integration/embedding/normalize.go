package embedding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/futig/rag-chat/internal/entity"
)

const maxUnwrapDepth = 4

var errUnexpectedShape = errors.New("unexpected embedding response shape")

// Normalize extracts the embedding from a provider response. Accepted shapes:
//
//	[0.1, 0.2]                              bare list
//	{"embedding": [0.1, 0.2]}               ollama
//	{"embedding": {"values": [0.1, 0.2]}}   gemini
//	{"data": [{"embedding": [0.1, 0.2]}]}   openai-compatible
//	{"embeddings": [[0.1, 0.2]]}            ollama /api/embed
//
// Every element must be a JSON number.
func Normalize(raw []byte) (entity.EmbeddingVector, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	values, err := unwrap(v, 0)
	if err != nil {
		return nil, err
	}

	return toVector(values)
}

func unwrap(v any, depth int) ([]any, error) {
	if depth > maxUnwrapDepth {
		return nil, errUnexpectedShape
	}

	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		if emb, ok := t["embedding"]; ok {
			return unwrap(emb, depth+1)
		}
		if values, ok := t["values"]; ok {
			return unwrap(values, depth+1)
		}
		if data, ok := t["data"].([]any); ok && len(data) > 0 {
			return unwrap(data[0], depth+1)
		}
		if embs, ok := t["embeddings"].([]any); ok && len(embs) > 0 {
			return unwrap(embs[0], depth+1)
		}
	}

	return nil, errUnexpectedShape
}

func toVector(values []any) (entity.EmbeddingVector, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty embedding")
	}

	vec := make(entity.EmbeddingVector, len(values))
	for i, raw := range values {
		num, ok := raw.(json.Number)
		if !ok {
			return nil, fmt.Errorf("embedding element %d is %T, not a number", i, raw)
		}
		f, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("embedding element %d: %w", i, err)
		}
		vec[i] = float32(f)
	}

	return vec, nil
}
