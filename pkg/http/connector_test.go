package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestConnector(t *testing.T, url string, opts ...HttpOpts) *Connector {
	t.Helper()
	opts = append(opts, WithRequestLogging())
	return NewConnector(&ConnectorConfig{BaseURL: url, Logger: zaptest.NewLogger(t)}, opts...)
}

func TestDoRequest_SendsJSONAndAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "yes", r.URL.Query().Get("alt"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer server.Close()

	c := newTestConnector(t, server.URL, WithAuthToken("secret"))

	var out map[string]string
	err := c.DoRequest(context.Background(), http.MethodPost, "/v1/echo", map[string]string{"k": "v"}, &out, WithQuery("alt", "yes"))
	require.NoError(t, err)
	assert.Equal(t, "v", out["k"])
}

func TestDoRequest_APIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k-123", r.Header.Get("Api-Key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestConnector(t, server.URL, WithAPIKeyHeader("Api-Key", "k-123"))
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))
}

func TestDoRequest_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vector dimension 3 does not match the dimension of the index 768", http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestConnector(t, server.URL)
	err := c.DoRequest(context.Background(), http.MethodPost, "/query", map[string]int{"topK": 3}, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "dimension")
}

func TestDoRequest_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestConnector(t, url)
	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestOpenStream_ReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Write([]byte("data: one\n\ndata: two\n\n"))
	}))
	defer server.Close()

	c := newTestConnector(t, server.URL)
	body, err := c.OpenStream(context.Background(), http.MethodPost, "/stream", map[string]bool{"stream": true})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "data: one\n\ndata: two\n\n", string(data))
}
