package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/insightqa/insightqa/internal/api"
	"github.com/insightqa/insightqa/internal/rag"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

var logH = logger_i.NewLogger("Handlers")

// Handlers owns the HTTP surface. Every route goes through the Service
// interface so the transport layer stays ignorant of the pipeline.
type Handlers struct {
	service rag.Service
}

func NewHandlers(service rag.Service) *Handlers {
	return &Handlers{service: service}
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{Code: httpCode, Message: message})
}

// writeServiceError maps scope rejections onto their own status and hides
// everything else behind a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var se *rag.ScopeError
	if errors.As(err, &se) {
		WriteErrorResponse(w, se.Status, se.Message)
		return
	}
	logH.Error("Request failed", "error", err)
	WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logH.Warn("context cancelled")
		return false
	default:
		return true
	}
}
