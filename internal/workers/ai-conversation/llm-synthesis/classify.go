// internal/workers/ai-conversation/llm-synthesis/classify.go
package llmsynthesis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"syscall"

	apperrors "scholarship-workers/internal/common/errors"
)

// Outcome is the classification of one completion attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeRetryable Outcome = "retryable_failure"
	OutcomeFatal     Outcome = "fatal_failure"
)

var billingPattern = regexp.MustCompile(`(?i)billing|quota|payment`)

// Classify decides whether a failed attempt is worth repeating on the same
// backend. Errors of unknown shape are fatal.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeRetryable
	}
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		if stdErr.Retryable {
			return OutcomeRetryable
		}
		return OutcomeFatal
	}
	if isNetworkError(err) {
		return OutcomeRetryable
	}
	return OutcomeFatal
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused")
}

// statusError maps an HTTP status plus an optional vendor status string to a
// coded backend error.
func statusError(provider string, status int, vendorStatus, message string) *apperrors.StandardError {
	cause := fmt.Errorf("status %d %s: %s", status, vendorStatus, message)

	switch strings.ToUpper(vendorStatus) {
	case "RESOURCE_EXHAUSTED":
		return apperrors.NewBackendRateLimitedError(provider, cause)
	case "UNAVAILABLE", "INTERNAL", "DEADLINE_EXCEEDED":
		return apperrors.NewBackendUnavailableError(provider, cause)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return apperrors.NewBackendRateLimitedError(provider, cause)
	case status >= 500:
		return apperrors.NewBackendUnavailableError(provider, cause)
	case status == http.StatusUnauthorized:
		return apperrors.NewBackendAuthFailedError(provider, cause)
	case status == http.StatusPaymentRequired:
		return apperrors.NewBackendBillingError(provider, cause)
	case status == http.StatusForbidden:
		if billingPattern.MatchString(message) {
			return apperrors.NewBackendBillingError(provider, cause)
		}
		return apperrors.NewBackendAuthFailedError(provider, cause)
	default:
		return apperrors.NewBackendMalformedRequestError(provider, cause)
	}
}

// transportError wraps a failure that happened before any status was read.
// Context errors pass through untouched so the orchestrator can tell a
// per-attempt timeout from caller cancellation.
func transportError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	if isNetworkError(err) {
		return apperrors.NewBackendUnavailableError(provider, err)
	}
	return apperrors.NewBackendMalformedRequestError(provider, err)
}
