package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors shared between the HTTP layer and the gateway client.
var (
	// ErrNoCart means no cart exists yet for the owner. Callers should treat
	// it as "empty cart", not as a hard failure.
	ErrNoCart = errors.New("no cart")

	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed input: a negative quantity or price fed
// to the aggregator, or an add/update request outside the allowed bounds.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StockError means the requested quantity exceeds availability. It originates
// server-side and is passed through unchanged by the gateway client.
type StockError struct {
	ArticleUUID string
	Requested   int
	Available   int
	Message     string // set when the figures are unknown, e.g. client-side
}

func (e *StockError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("article %s: requested %d, only %d available", e.ArticleUUID, e.Requested, e.Available)
}

// IsStock reports whether err is (or wraps) a StockError.
func IsStock(err error) bool {
	var se *StockError
	return errors.As(err, &se)
}
