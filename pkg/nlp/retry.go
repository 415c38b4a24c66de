package nlp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy describes how a transient external-API failure is retried:
// a bounded number of attempts with exponential, jittered delays.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts including the first
	// (default: 3).
	MaxAttempts int
	// InitialDelay is the delay before the first retry (default: 500ms).
	InitialDelay time.Duration
	// MaxDelay caps the delay between retries (default: 10s).
	MaxDelay time.Duration
	// Multiplier is the exponential backoff factor (default: 2.0).
	Multiplier float64
	// Jitter is the randomization factor applied to each delay, in
	// [0, 1] (default: 0.5).
	Jitter float64
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.5,
	}
}

func (p *RetryPolicy) normalized() *RetryPolicy {
	policy := *p
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = 500 * time.Millisecond
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 10 * time.Second
	}
	if policy.Multiplier <= 0 {
		policy.Multiplier = 2.0
	}
	if policy.Jitter < 0 || policy.Jitter > 1 {
		policy.Jitter = 0.5
	}
	return &policy
}

// Permanent marks an error as non-retryable so Retry fails immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Retry runs operation until it succeeds, the policy's attempts are
// exhausted, or the context is cancelled. Errors that do not look
// transient (see IsRetryable) abort the loop immediately.
func Retry(ctx context.Context, policy *RetryPolicy, operation func() error) error {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	policy = policy.normalized()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialDelay
	b.MaxInterval = policy.MaxDelay
	b.Multiplier = policy.Multiplier
	b.RandomizationFactor = policy.Jitter
	b.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	wrapped := func() error {
		err := operation()
		if err == nil {
			return nil
		}
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return err
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped,
		backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(policy.MaxAttempts-1)))
}

// retryablePatterns are error-message fragments that indicate a
// transient failure worth retrying.
var retryablePatterns = []string{
	"500", "internal server error",
	"502", "bad gateway",
	"503", "service unavailable",
	"504", "gateway timeout",
	"timeout",
	"connection reset",
	"connection refused",
	"temporary failure",
	"rate limit",
	"too many requests",
	"429",
}

// IsRetryable reports whether an error looks transient: rate limits,
// server errors, and connection failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	type httpErrorWithStatusCode interface {
		HTTPStatusCode() int
	}
	var httpErr httpErrorWithStatusCode
	if errors.As(err, &httpErr) {
		statusCode := httpErr.HTTPStatusCode()
		return statusCode >= 500 || statusCode == http.StatusTooManyRequests
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
