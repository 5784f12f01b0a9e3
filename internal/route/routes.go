package route

import (
	"net/http"

	"anonymizer/internal/handler"
	"anonymizer/internal/logger"
	"anonymizer/internal/middleware"
)

// SetupRoutes registers the invocation, event and health endpoints and wraps
// the mux with the authentication middleware.
func SetupRoutes(invoker handler.Invoker, hub handler.Hub, token string, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/invoke", handler.InvokeHandler(invoker, logger))
	mux.HandleFunc("/api/events", handler.EventsWebsocketHandler(hub, logger))
	mux.HandleFunc("/healthz", handler.HealthHandler())

	return middleware.AuthMiddleware(token, mux)
}
