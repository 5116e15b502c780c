package index

import (
	"context"
	"fmt"
	"runtime"

	"github.com/futig/rag-chat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

const (
	localCollection = "reviews"
	metaProfessor   = "professor"
)

// Embedder embeds seed documents when the local index is built.
type Embedder interface {
	Embed(ctx context.Context, text string) (entity.EmbeddingVector, error)
}

// LocalIndex is an in-process chromem-go collection, meant for development
// and tests. It is read-only once built.
type LocalIndex struct {
	collection *chromem.Collection
	dimension  int
	logger     *zap.Logger
}

// NewLocalIndex embeds every review with embedder and loads it into a fresh
// in-memory collection.
func NewLocalIndex(ctx context.Context, reviews []entity.Review, embedder Embedder, dimension int, logger *zap.Logger) (*LocalIndex, error) {
	embed := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(localCollection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := reviewDocuments(reviews)
	if len(docs) > 0 && dimension == 0 {
		// the first embedding fixes the dimension queries are checked against
		first, err := embedder.Embed(ctx, docs[0].Content)
		if err != nil {
			return nil, fmt.Errorf("embed seed document: %w", err)
		}
		docs[0].Embedding = first
		dimension = len(first)
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("add seed documents: %w", err)
	}

	logger.Info("local index built",
		zap.Int("documents", collection.Count()),
		zap.Int("dimensions", dimension),
	)

	return &LocalIndex{
		collection: collection,
		dimension:  dimension,
		logger:     logger,
	}, nil
}

func (l *LocalIndex) Query(ctx context.Context, vec entity.EmbeddingVector) ([]entity.Match, error) {
	if err := checkDimension(vec, l.dimension); err != nil {
		return nil, err
	}

	n := min(entity.TopK, l.collection.Count())
	if n == 0 {
		return []entity.Match{}, nil
	}

	results, err := l.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vec,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: local index: %w", entity.ErrRetrieval, err)
	}

	matches := make([]entity.Match, 0, len(results))
	for _, r := range results {
		meta := make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			meta[k] = v
		}
		id := meta[metaProfessor]
		if id == "" {
			id = r.ID
		}
		delete(meta, metaProfessor)

		matches = append(matches, entity.Match{
			ID:       id,
			Score:    float64(r.Similarity),
			Metadata: parseStringMetadata(meta, numericMetadata),
		})
	}

	matches = topMatches(matches)
	ctxzap.Debug(ctx, "local index matches", zap.Int("match_count", len(matches)))

	return matches, nil
}
