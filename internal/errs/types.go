package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// ExternalServiceError is a failed call to a third-party API.
// Transient marks failures the vendor asked us to retry later.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Status    int
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// TransformError is a vendor record that could not be normalized.
type TransformError struct {
	ErrorMessage
	DealID string
	Field  string
	Value  string
	Err    error
}

func (e *TransformError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

// NewExternalServiceError builds an error from a vendor HTTP status.
// 429 and 503 are the rate limit signals and are the only transient statuses.
func NewExternalServiceError(service string, status int, message string, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Status:       status,
		Transient:    status == http.StatusServiceUnavailable || status == http.StatusTooManyRequests,
		Err:          err,
	}
}

func NewTransformError(dealID, field, value string, err error) *TransformError {
	return &TransformError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("deal %q: invalid %s %q", dealID, field, value)},
		DealID:       dealID,
		Field:        field,
		Value:        value,
		Err:          err,
	}
}

// IsTransient reports whether err wraps a transient ExternalServiceError.
func IsTransient(err error) bool {
	var ext *ExternalServiceError
	return errors.As(err, &ext) && ext.Transient
}
