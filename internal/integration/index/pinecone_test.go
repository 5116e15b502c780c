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

func newTestPinecone(t *testing.T, url string, dimension int) *PineconeConnector {
	t.Helper()
	return NewPineconeConnector(config.IndexConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{Url: url, Token: "pc-key"},
		Namespace:        "ns1",
		Dimension:        dimension,
	}, zaptest.NewLogger(t))
}

func TestPinecone_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "pc-key", r.Header.Get("Api-Key"))

		var req pineconeQueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.TopK)
		assert.True(t, req.IncludeMetadata)
		assert.Equal(t, "ns1", req.Namespace)
		assert.Equal(t, []float32{0.1, 0.2}, req.Vector)

		// provider answered out of order and with too many results
		w.Write([]byte(`{"namespace":"ns1","matches":[
			{"id":"B","score":0.5,"metadata":{"review":"ok","subject":"Math","stars":3}},
			{"id":"A","score":0.9,"metadata":{"review":"great","subject":"Art","stars":5}},
			{"id":"D","score":0.1,"metadata":{}},
			{"id":"C","score":0.7,"metadata":{"review":"fine","subject":"Bio","stars":4,"tags":["x"]}}
		]}`))
	}))
	defer server.Close()

	matches, err := newTestPinecone(t, server.URL, 0).Query(context.Background(), entity.EmbeddingVector{0.1, 0.2})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "A", matches[0].ID)
	assert.Equal(t, "C", matches[1].ID)
	assert.Equal(t, "B", matches[2].ID)
	assert.Equal(t, map[string]any{"review": "great", "subject": "Art", "stars": 5.0}, matches[0].Metadata)
	assert.Equal(t, `["x"]`, matches[1].Metadata["tags"])
}

func TestPinecone_MissingMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	_, err := newTestPinecone(t, server.URL, 0).Query(context.Background(), entity.EmbeddingVector{0.1})
	assert.ErrorIs(t, err, entity.ErrRetrieval)
}

func TestPinecone_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestPinecone(t, url, 0).Query(context.Background(), entity.EmbeddingVector{0.1})
	assert.ErrorIs(t, err, entity.ErrRetrieval)
}

func TestPinecone_DimensionMismatch(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newTestPinecone(t, server.URL, 768).Query(context.Background(), entity.EmbeddingVector{0.1, 0.2})
	assert.ErrorIs(t, err, entity.ErrRetrieval)
	assert.False(t, called)
}

func TestPinecone_RemoteDimensionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":3,"message":"Vector dimension 2 does not match the dimension of the index 768"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestPinecone(t, server.URL, 0).Query(context.Background(), entity.EmbeddingVector{0.1, 0.2})
	assert.ErrorIs(t, err, entity.ErrRetrieval)
	assert.Contains(t, err.Error(), "dimension")
}
