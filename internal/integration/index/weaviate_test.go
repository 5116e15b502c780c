package index

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/rag-chat/internal/config"
	"github.com/futig/rag-chat/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestWeaviate(t *testing.T, handler http.HandlerFunc) *WeaviateConnector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewWeaviateConnector(config.IndexConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{Url: server.URL},
		Class:            "Review",
		Fields:           []string{"professor", "review", "subject", "stars"},
		IDField:          "professor",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestWeaviate_Query(t *testing.T) {
	c := newTestWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/graphql" {
			w.Write([]byte(`{}`))
			return
		}
		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body.Query, "nearVector")

		w.Write([]byte(`{"data":{"Get":{"Review":[
			{"professor":"Dr. B","review":"ok","subject":"Math","stars":3,"_additional":{"id":"id-b","certainty":0.7}},
			{"professor":"Dr. A","review":"great","subject":"Art","stars":5,"_additional":{"id":"id-a","certainty":0.9}},
			{"review":"anon","subject":"Bio","stars":1,"_additional":{"id":"id-c","certainty":0.5}}
		]}}}`))
	})

	matches, err := c.Query(context.Background(), entity.EmbeddingVector{0.1, 0.2})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "Dr. A", matches[0].ID)
	assert.InDelta(t, 0.9, matches[0].Score, 1e-9)
	assert.Equal(t, map[string]any{"review": "great", "subject": "Art", "stars": 5.0}, matches[0].Metadata)
	assert.Equal(t, "id-c", matches[2].ID)
}

func TestWeaviate_GraphQLError(t *testing.T) {
	c := newTestWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"vector lengths don't match: 768 vs 2"}]}`))
	})

	_, err := c.Query(context.Background(), entity.EmbeddingVector{0.1, 0.2})
	assert.ErrorIs(t, err, entity.ErrRetrieval)
	assert.Contains(t, err.Error(), "vector lengths")
}

func TestWeaviate_MissingClass(t *testing.T) {
	c := newTestWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"Get":{}}}`))
	})

	_, err := c.Query(context.Background(), entity.EmbeddingVector{0.1})
	assert.ErrorIs(t, err, entity.ErrRetrieval)
}
