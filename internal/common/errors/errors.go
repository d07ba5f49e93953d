package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode classifies application errors
type ErrorCode string

const (
	// Generic errors
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// Snapshot / data-contract errors
	ErrCodeMalformedSnapshot    ErrorCode = "MALFORMED_SNAPSHOT"
	ErrCodeDanglingPrecondition ErrorCode = "DANGLING_PRECONDITION"

	// Inventory errors
	ErrCodeCampaignNotFound ErrorCode = "CAMPAIGN_NOT_FOUND"
	ErrCodeDropNotFound     ErrorCode = "DROP_NOT_FOUND"

	// External API errors
	ErrCodeTwitchAPI ErrorCode = "TWITCH_API_ERROR"
	ErrCodeGQLError  ErrorCode = "GQL_ERROR"
	ErrCodeRateLimit ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Cache errors
	ErrCodeCacheError ErrorCode = "CACHE_ERROR"
	ErrCodeCacheMiss  ErrorCode = "CACHE_MISS"
)

// AppError is the typed application error carried across layers.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"stack,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a "not found" kind.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeCampaignNotFound ||
		e.Code == ErrCodeDropNotFound
}

// IsDataContract reports whether the error is a snapshot data-contract
// violation, i.e. unrecoverable bad input rather than a runtime failure.
func (e *AppError) IsDataContract() bool {
	return e.Code == ErrCodeMalformedSnapshot || e.Code == ErrCodeDanglingPrecondition
}

// IsInternal reports whether the error is an internal failure.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeCacheError ||
		e.Code == ErrCodeTwitchAPI ||
		e.Code == ErrCodeGQLError
}

// WithContext attaches a request-scoped key/value pair.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetail attaches structured detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID tags the error with the originating request id.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// Constructors for frequently used errors

// NewMalformedSnapshotError reports a missing or ill-typed snapshot field.
func NewMalformedSnapshotError(campaignID, field, reason string) *AppError {
	return New(ErrCodeMalformedSnapshot, fmt.Sprintf("Malformed snapshot field '%s': %s", field, reason)).
		WithDetail("campaign_id", campaignID).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewDanglingPreconditionError reports a precondition id that does not
// resolve to a drop of the same campaign.
func NewDanglingPreconditionError(dropID, preconditionID string) *AppError {
	return New(ErrCodeDanglingPrecondition,
		fmt.Sprintf("Drop %s references unknown precondition drop %s", dropID, preconditionID)).
		WithDetail("drop_id", dropID).
		WithDetail("precondition_id", preconditionID)
}

// NewCampaignNotFoundError creates a "campaign not found" error.
func NewCampaignNotFoundError(campaignID string) *AppError {
	return New(ErrCodeCampaignNotFound, fmt.Sprintf("Campaign not found: %s", campaignID)).
		WithDetail("campaign_id", campaignID)
}

// NewDropNotFoundError creates a "drop not found" error.
func NewDropNotFoundError(dropID string) *AppError {
	return New(ErrCodeDropNotFound, fmt.Sprintf("Drop not found: %s", dropID)).
		WithDetail("drop_id", dropID)
}

// NewTwitchAPIError creates a Twitch API error.
func NewTwitchAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeTwitchAPI, fmt.Sprintf("Twitch API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewCacheError creates a cache error.
func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewRateLimitError creates a rate limit error.
func NewRateLimitError(service string, retryAfter time.Duration) *AppError {
	return New(ErrCodeRateLimit, fmt.Sprintf("Rate limit exceeded for %s", service)).
		WithDetail("service", service).
		WithDetail("retry_after", retryAfter.String())
}

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts err to an AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
