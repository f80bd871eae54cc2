package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"transitpos/internal/gtfs"
)

// Handler holds the shared dependencies for all HTTP handlers: the
// single atomic dataset store every endpoint reads from, and a logger.
type Handler struct {
	store  *gtfs.Store
	logger *slog.Logger
}

// New creates a Handler.
func New(store *gtfs.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// apiError is a request-scoped failure with an HTTP status attached.
// Handlers return one of these (via the helpers below) instead of
// writing the response body directly, so status-code selection stays
// in one place.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(format string, args ...any) *apiError {
	return &apiError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *apiError {
	return &apiError{status: http.StatusNotFound, message: fmt.Sprintf(format, args...)}
}

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response already started; nothing more we can do but note it.
		_ = err
	}
}

// writeError writes an apiError as a JSON error body. A plain error
// (one not produced by the helpers above) is treated as an internal
// failure and its message is not leaked to the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if ae, ok := err.(*apiError); ok {
		writeJSON(w, ae.status, map[string]string{"error": ae.message})
		return
	}
	logger.Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// datasetOrUnavailable fetches the current dataset, translating
// gtfs.ErrNotReady into a 503 so callers don't need to know about it.
func (h *Handler) datasetOrUnavailable(w http.ResponseWriter) (*gtfs.Dataset, bool) {
	ds, err := h.store.Get()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "dataset not loaded yet"})
		return nil, false
	}
	return ds, true
}
