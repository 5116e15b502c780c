package common

import (
	"github.com/futig/rag-chat/internal/config"
	pkgHTTP "github.com/futig/rag-chat/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds the shared HTTP connector for a provider. auth
// attaches the provider credential; pass nil for unauthenticated services.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger, auth pkgHTTP.HttpOpts) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
	}
	if auth != nil {
		opts = append(opts, auth)
	}

	return pkgHTTP.NewConnector(connCfg, opts...)
}
