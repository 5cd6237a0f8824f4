// Package admin serves the operator endpoints of the order service: metrics,
// liveness and the saga audit trail.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/order-sagas/internal/coordinator/sagalog"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewRouter mounts /metrics, /healthz and /sagas/{id}/log. logs may be nil
// when the audit trail is disabled.
func NewRouter(metrics http.Handler, logs sagalog.Reader) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/sagas/{id}/log", sagaLogHandler(logs))
	return r
}

func sagaLogHandler(logs sagalog.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logs == nil {
			writeError(w, http.StatusNotFound, "audit_trail_disabled", "SAGA_LOG_PATH is not set")
			return
		}

		id := chi.URLParam(r, "id")
		entries, err := logs.ListBySaga(r.Context(), id)
		if err != nil {
			slog.ErrorContext(r.Context(), "read saga log", "saga_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "saga_log_error", err.Error())
			return
		}
		if len(entries) == 0 {
			writeError(w, http.StatusNotFound, "saga_not_found", id)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
