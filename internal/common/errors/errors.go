// internal/common/errors/errors.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ErrorCode string

const (
	// Caller input
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeRateLimitExceeded  ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestCancelled   ErrorCode = "REQUEST_CANCELLED"

	// Storage collaborators
	ErrCodeCandidateFetchFailed ErrorCode = "CANDIDATE_FETCH_FAILED"
	ErrCodeIntakeFetchFailed    ErrorCode = "INTAKE_FETCH_FAILED"

	// Completion backends
	ErrCodeBackendRateLimited      ErrorCode = "BACKEND_RATE_LIMITED"
	ErrCodeBackendUnavailable      ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeBackendTimeout          ErrorCode = "BACKEND_TIMEOUT"
	ErrCodeBackendAuthFailed       ErrorCode = "BACKEND_AUTH_FAILED"
	ErrCodeBackendBilling          ErrorCode = "BACKEND_BILLING"
	ErrCodeBackendMalformedRequest ErrorCode = "BACKEND_MALFORMED_REQUEST"
	ErrCodeBackendEmptyResponse    ErrorCode = "BACKEND_EMPTY_RESPONSE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to Metadata and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false, nil)
}

func NewInvalidRequestBodyError(err error) *StandardError {
	return newError(ErrCodeInvalidRequestBody, "Malformed request body", err.Error(), false, err)
}

func NewRateLimitExceededError(limit int, window time.Duration) *StandardError {
	return newError(ErrCodeRateLimitExceeded, "Too many requests, please retry shortly",
		fmt.Sprintf("limit: %d per %s", limit, window), true, nil)
}

func NewRequestCancelledError(err error) *StandardError {
	return newError(ErrCodeRequestCancelled, "Request cancelled by caller", err.Error(), false, err)
}

func NewCandidateFetchFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCandidateFetchFailed, "Scholarship candidate fetch failed",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true, err)
}

func NewIntakeFetchFailedError(userID string, err error) *StandardError {
	return newError(ErrCodeIntakeFetchFailed, "Intake record lookup failed",
		fmt.Sprintf("userId: %s, error: %s", userID, err.Error()), true, err)
}

func NewBackendRateLimitedError(provider string, err error) *StandardError {
	return newError(ErrCodeBackendRateLimited, fmt.Sprintf("Completion backend '%s' rate limited", provider),
		errDetails(err), true, err)
}

func NewBackendUnavailableError(provider string, err error) *StandardError {
	return newError(ErrCodeBackendUnavailable, fmt.Sprintf("Completion backend '%s' unavailable", provider),
		errDetails(err), true, err)
}

func NewBackendTimeoutError(provider string, timeout time.Duration) *StandardError {
	return newError(ErrCodeBackendTimeout, fmt.Sprintf("Completion backend '%s' timeout", provider),
		fmt.Sprintf("attempt exceeded %s", timeout), true, context.DeadlineExceeded)
}

func NewBackendAuthFailedError(provider string, err error) *StandardError {
	return newError(ErrCodeBackendAuthFailed, fmt.Sprintf("Completion backend '%s' rejected credentials", provider),
		errDetails(err), false, err)
}

func NewBackendBillingError(provider string, err error) *StandardError {
	return newError(ErrCodeBackendBilling, fmt.Sprintf("Completion backend '%s' billing or quota failure", provider),
		errDetails(err), false, err)
}

func NewBackendMalformedRequestError(provider string, err error) *StandardError {
	return newError(ErrCodeBackendMalformedRequest, fmt.Sprintf("Completion backend '%s' rejected the request", provider),
		errDetails(err), false, err)
}

func NewBackendEmptyResponseError(provider string) *StandardError {
	return newError(ErrCodeBackendEmptyResponse, fmt.Sprintf("Completion backend '%s' returned no text", provider),
		"", false, nil)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errDetails(err), false, err)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// AsStandardError unwraps err to a *StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:            "INVALID_INPUT",
	ErrCodeInvalidRequestBody:      "INVALID_INPUT",
	ErrCodeCandidateFetchFailed:    "CANDIDATE_FETCH_FAILED",
	ErrCodeIntakeFetchFailed:       "INTAKE_FETCH_FAILED",
	ErrCodeBackendRateLimited:      "COMPLETION_FAILED",
	ErrCodeBackendUnavailable:      "COMPLETION_FAILED",
	ErrCodeBackendTimeout:          "COMPLETION_TIMEOUT",
	ErrCodeBackendAuthFailed:       "COMPLETION_FAILED",
	ErrCodeBackendBilling:          "COMPLETION_FAILED",
	ErrCodeBackendMalformedRequest: "COMPLETION_FAILED",
	ErrCodeBackendEmptyResponse:    "COMPLETION_FAILED",
	ErrCodeRequestCancelled:        "REQUEST_CANCELLED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCandidateFetchFailed,
		ErrCodeIntakeFetchFailed,
		ErrCodeBackendUnavailable:
		return 3
	case ErrCodeBackendRateLimited,
		ErrCodeBackendTimeout:
		return 2
	case ErrCodeInternal:
		return 1
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "BACKEND"):
		return "COMPLETION"
	case strings.Contains(codeStr, "CANDIDATE") || strings.Contains(codeStr, "INTAKE"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "RATE_LIMIT"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CANCELLED"):
		return "CALLER"
	default:
		return "OTHER"
	}
}

// StatusClientClosedRequest is reported when the caller went away mid-request.
const StatusClientClosedRequest = 499

// HTTPStatus maps an error to the status code reported to API callers.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if stderrors.Is(err, context.Canceled) {
		return StatusClientClosedRequest
	}
	stdErr, ok := AsStandardError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch stdErr.Code {
	case ErrCodeInvalidInput, ErrCodeInvalidRequestBody:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded, ErrCodeBackendRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeBackendAuthFailed:
		return http.StatusUnauthorized
	case ErrCodeBackendBilling:
		return http.StatusForbidden
	case ErrCodeBackendUnavailable, ErrCodeBackendTimeout, ErrCodeCandidateFetchFailed:
		return http.StatusServiceUnavailable
	case ErrCodeRequestCancelled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the caller-safe text for err. Technical details stay in logs.
func PublicMessage(err error) string {
	stdErr, ok := AsStandardError(err)
	if !ok {
		return "Something went wrong, please try again"
	}
	switch stdErr.Code {
	case ErrCodeInvalidInput, ErrCodeInvalidRequestBody, ErrCodeRateLimitExceeded:
		if stdErr.Details != "" && stdErr.Code == ErrCodeInvalidInput {
			return stdErr.Details
		}
		return stdErr.Message
	default:
		return "Something went wrong, please try again"
	}
}
