package response

import (
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.WriteCached(w, r, status, data, false)
}

// WriteCached writes a success envelope flagged with whether data was reused.
func (h *responseHandler) WriteCached(w http.ResponseWriter, r *http.Request, status int, data any, fromCache bool) {
	h.write(w, r, status, Envelope{
		Success:   true,
		Data:      data,
		FromCache: fromCache,
	})
}

func (h *responseHandler) write(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil {
		// Last-ditch logging; can't return an error now
		logger.FromContext(r.Context()).Error("failed to encode response", "error", err, "status", status)
	}
}
