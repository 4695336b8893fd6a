package youtube

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/elliekim312/youtube-dashboard/domain/errs"
	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"
)

// RetryConfig controls retry behavior for transient catalog failures.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var defaultRetryConfig = RetryConfig{
	MaxRetries:  1,
	InitialWait: 250 * time.Millisecond,
	MaxWait:     2 * time.Second,
	Multiplier:  2.0,
}

// retryDo retries fn up to MaxRetries times with exponential backoff.
// Only transient errors are retried; quota errors and cancellations return immediately.
func retryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return zero, err
		}

		if attempt < rc.MaxRetries {
			wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt)))
			if wait > rc.MaxWait {
				wait = rc.MaxWait
			}
			logger.GetLogger().WithField("attempt", attempt+1).WithField("wait", wait.String()).WithField("error", err).Debug("retrying catalog call")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}

// isRetryable returns true for server-side 5xx errors and transport failures.
// Timeouts are not retried; a slow catalog call already used its budget.
func isRetryable(err error) bool {
	var catalogErr *errs.CatalogError
	if !errors.As(err, &catalogErr) {
		return false
	}
	switch catalogErr.Status {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case 0:
		return !errors.Is(err, context.DeadlineExceeded) &&
			!errors.Is(err, context.Canceled) &&
			!errors.Is(err, errs.ErrMalformedResponse)
	}
	return false
}
