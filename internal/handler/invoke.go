package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"anonymizer/internal/dto"
	"anonymizer/internal/logger"
)

// maxRequestBytes bounds the invocation payload read from the body.
const maxRequestBytes = 1 << 20

// Invoker runs one anonymization request.
type Invoker interface {
	Handle(ctx context.Context, req dto.Request) dto.Response
}

// InvokeHandler accepts an invocation payload and writes the structured
// response. Pipeline failures are reported in the response, not the HTTP status.
func InvokeHandler(invoker Invoker, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req dto.Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
			logger.Warning("Invalid invocation payload from %s: %v", r.RemoteAddr, err)
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
			return
		}

		response := invoker.Handle(r.Context(), req)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("Failed to write response: %v", err)
		}
	}
}
