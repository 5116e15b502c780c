package index

import (
	"context"
	"fmt"
	"net/url"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"go.uber.org/zap"
)

// WeaviateConnector runs nearVector GraphQL queries against one class.
type WeaviateConnector struct {
	config config.IndexConnectorConfig
	client *weaviate.Client
	logger *zap.Logger
}

func NewWeaviateConnector(
	cfg config.IndexConnectorConfig,
	logger *zap.Logger,
) (*WeaviateConnector, error) {
	u, err := url.Parse(cfg.Url)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid weaviate url %q", cfg.Url)
	}

	wcfg := weaviate.Config{
		Host:   u.Host,
		Scheme: u.Scheme,
	}
	if cfg.Token != "" {
		wcfg.AuthConfig = auth.ApiKey{Value: cfg.Token}
	}

	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	return &WeaviateConnector{
		config: cfg,
		client: client,
		logger: logger,
	}, nil
}

func (c *WeaviateConnector) fields() []graphql.Field {
	fields := make([]graphql.Field, 0, len(c.config.Fields)+1)
	for _, name := range c.config.Fields {
		fields = append(fields, graphql.Field{Name: name})
	}
	return append(fields, graphql.Field{Name: "_additional", Fields: []graphql.Field{
		{Name: "id"},
		{Name: "certainty"},
	}})
}

// Query returns the TopK nearest objects of the configured class.
func (c *WeaviateConnector) Query(ctx context.Context, vec entity.EmbeddingVector) ([]entity.Match, error) {
	if err := checkDimension(vec, c.config.Dimension); err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "querying weaviate",
		zap.String("class", c.config.Class),
		zap.Int("dimensions", len(vec)),
	)

	nearVector := c.client.GraphQL().NearVectorArgBuilder().WithVector(vec)

	resp, err := c.client.GraphQL().Get().
		WithClassName(c.config.Class).
		WithFields(c.fields()...).
		WithNearVector(nearVector).
		WithLimit(entity.TopK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: weaviate: %w", entity.ErrRetrieval, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: weaviate: %s", entity.ErrRetrieval, resp.Errors[0].Message)
	}

	objects, err := c.objects(resp.Data["Get"])
	if err != nil {
		return nil, err
	}

	matches := make([]entity.Match, 0, len(objects))
	for _, obj := range objects {
		matches = append(matches, c.toMatch(obj))
	}

	matches = topMatches(matches)
	ctxzap.Debug(ctx, "weaviate matches received", zap.Int("match_count", len(matches)))

	return matches, nil
}

// objects digs the <Class> list out of the GraphQL Get payload.
func (c *WeaviateConnector) objects(payload any) ([]map[string]any, error) {
	get, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: weaviate: response has no Get field", entity.ErrRetrieval)
	}
	list, ok := get[c.config.Class].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: weaviate: response has no %s list", entity.ErrRetrieval, c.config.Class)
	}

	objects := make([]map[string]any, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: weaviate: unexpected object %T", entity.ErrRetrieval, item)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (c *WeaviateConnector) toMatch(obj map[string]any) entity.Match {
	var m entity.Match

	props := make(map[string]any, len(obj))
	for key, value := range obj {
		if key != "_additional" {
			props[key] = value
		}
	}

	if additional, ok := obj["_additional"].(map[string]any); ok {
		m.ID, _ = additional["id"].(string)
		m.Score, _ = additional["certainty"].(float64)
	}
	if id, ok := props[c.config.IDField].(string); ok && id != "" {
		m.ID = id
		delete(props, c.config.IDField)
	}

	m.Metadata = scalarMetadata(props)
	return m
}
