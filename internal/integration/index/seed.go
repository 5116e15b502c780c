package index

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/futig/rag-chat/internal/entity"
	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
)

// LoadSeed reads the review seed file used by the local index.
func LoadSeed(path string) (*entity.ReviewSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("seed file is empty: %s", path)
	}

	var seed entity.ReviewSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed JSON: %w", err)
	}

	if len(seed.Reviews) == 0 {
		return nil, fmt.Errorf("seed file contains no reviews: %s", path)
	}

	return &seed, nil
}

// numericMetadata names the document metadata keys written from numbers.
var numericMetadata = map[string]struct{}{
	"stars": {},
}

// reviewDocuments converts reviews into chromem documents. A professor may
// have several reviews, so every document gets its own id and the professor
// travels in the metadata.
func reviewDocuments(reviews []entity.Review) []chromem.Document {
	docs := make([]chromem.Document, 0, len(reviews))
	for _, r := range reviews {
		docs = append(docs, chromem.Document{
			ID:      uuid.NewString(),
			Content: r.Review,
			Metadata: map[string]string{
				metaProfessor: r.Professor,
				"review":      r.Review,
				"subject":     r.Subject,
				"stars":       strconv.FormatFloat(r.Stars, 'f', -1, 64),
			},
		})
	}
	return docs
}
