package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedResponse indicates the catalog returned an item that does not match the expected shape.
	ErrMalformedResponse = errors.New("malformed catalog response")
)

// ValidationError reports bad or missing input. It never reaches the network layer.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// QuotaError reports that the catalog rejected a call because the quota or rate limit is exhausted.
type QuotaError struct {
	Status int
	Reason string
	Op     string
}

func (e *QuotaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: quota exhausted (%d %s)", e.Op, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s: quota exhausted (%d)", e.Op, e.Status)
}

// CatalogError reports any other catalog failure. Status is 0 when no HTTP response was received.
type CatalogError struct {
	Status int
	Op     string
	Err    error
}

func (e *CatalogError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: catalog request failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: catalog returned %d %s: %v", e.Op, e.Status, http.StatusText(e.Status), e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// PartialFailure records a sub-operation that failed and was absorbed.
type PartialFailure struct {
	Op     string `json:"op"`
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

func NewPartialFailure(op, item string, err error) PartialFailure {
	reason := "unknown"
	if err != nil {
		reason = err.Error()
	}
	return PartialFailure{Op: op, Item: item, Reason: reason}
}

func (p PartialFailure) Error() string {
	return fmt.Sprintf("%s skipped %s: %s", p.Op, p.Item, p.Reason)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsQuota reports whether err is, or wraps, a QuotaError.
func IsQuota(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}
