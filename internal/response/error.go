package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.write(w, r, status, Envelope{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// HandleError logs err and writes its envelope. Client errors carry their own
// message; server errors carry the opaque message supplied by the caller.
func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status, code := Classify(err)
	log := logger.FromContext(r.Context())

	var (
		notFound   *errs.NotFoundError
		validation *errs.ValidationError
		external   *errs.ExternalServiceError
		transform  *errs.TransformError
	)
	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		message = notFound.Message

	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message)
		message = validation.Message

	case errors.As(err, &external):
		level := slog.LevelError
		if external.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", external.Service,
			"status", external.Status,
			"transient", external.Transient,
			"error", err)

	case errors.As(err, &transform):
		log.Error("vendor record rejected",
			"deal_id", transform.DealID,
			"field", transform.Field,
			"value", transform.Value)

	default:
		log.Error("request failed", "error", err, "status", status)
	}

	h.WriteError(w, r, status, code, message)
}

// Classify maps an error to its HTTP status and machine-readable code.
func Classify(err error) (int, string) {
	var (
		notFound   *errs.NotFoundError
		validation *errs.ValidationError
		external   *errs.ExternalServiceError
		transform  *errs.TransformError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &validation):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.As(err, &external):
		if external.Transient {
			return http.StatusServiceUnavailable, "rate_limited"
		}
		return http.StatusBadGateway, "upstream_error"
	case errors.As(err, &transform):
		return http.StatusBadGateway, "upstream_bad_data"
	}
	return http.StatusInternalServerError, "internal_error"
}
