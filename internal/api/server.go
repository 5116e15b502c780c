package api

import (
	"net/http"

	"github.com/futig/rag-chat/internal/api/chat"
	"github.com/futig/rag-chat/internal/api/docs"
	"github.com/futig/rag-chat/internal/api/middleware"
	"github.com/futig/rag-chat/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router. No request timeout is
// installed: streamed answers stay open as long as the provider streams.
func SetupRouter(chatHandler *chat.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	chat.RegisterRoutes(r, chatHandler)

	return r
}
