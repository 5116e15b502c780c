package http

import "net/http"

type authTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.value != "" {
		reqCopy.Header.Set(t.header, t.value)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends the token as an "Authorization: Bearer" header.
func WithAuthToken(token string) HttpOpts {
	if token == "" {
		return WithAPIKeyHeader("Authorization", "")
	}
	return WithAPIKeyHeader("Authorization", "Bearer "+token)
}

// WithAPIKeyHeader sends a provider-specific key header (x-goog-api-key, Api-Key).
func WithAPIKeyHeader(header, key string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			header:    header,
			value:     key,
			transport: rt,
		}
	})
}
