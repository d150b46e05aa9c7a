// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidIntake       ErrorCode = "INVALID_INTAKE"
	ErrCodeInvalidFrequency    ErrorCode = "INVALID_FREQUENCY"
	ErrCodeFrequencyNotFound   ErrorCode = "FREQUENCY_NOT_FOUND"
	ErrCodeCatalogUnavailable  ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed  ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeRecipientMissing    ErrorCode = "RECIPIENT_MISSING"
	ErrCodeNotificationFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeTemplateRenderError ErrorCode = "TEMPLATE_RENDER_FAILED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
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

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError is raised when job variables cannot be decoded at all.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job variables are malformed", details, false)
}

// NewInvalidIntakeError is raised when the intake payload fails schema validation.
func NewInvalidIntakeError(details string) *StandardError {
	return newError(ErrCodeInvalidIntake, "Intake form payload is invalid", details, false)
}

func NewInvalidFrequencyError(details string) *StandardError {
	return newError(ErrCodeInvalidFrequency, "Frequency must be a positive number of Hz", details, false)
}

func NewFrequencyNotFoundError(hz float64) *StandardError {
	return newError(ErrCodeFrequencyNotFound, "No catalog entry covers the frequency",
		fmt.Sprintf("frequency: %g", hz), false)
}

// NewCatalogUnavailableError wraps a failed catalog read. The engine converts it into an
// empty candidate list; it only surfaces from tooling and health checks.
func NewCatalogUnavailableError(backend string, err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable, "Frequency catalog unavailable",
		fmt.Sprintf("backend: %s, error: %s", backend, err.Error()), true)
}

func NewSessionNotFoundError(bookingID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "No recommendation stored for booking",
		fmt.Sprintf("bookingId: %s", bookingID), false)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store operation failed", err.Error(), true)
}

func NewRecipientMissingError(details string) *StandardError {
	return newError(ErrCodeRecipientMissing, "Notification recipient missing", details, false)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewTemplateRenderError(templateType string) *StandardError {
	return newError(ErrCodeTemplateRenderError, "Notification template not found",
		fmt.Sprintf("type: %s", templateType), false)
}

// ==========================
// 4. Error Mapping
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:        "INVALID_INPUT",
	ErrCodeInvalidIntake:       "INVALID_INTAKE",
	ErrCodeInvalidFrequency:    "INVALID_FREQUENCY",
	ErrCodeFrequencyNotFound:   "FREQUENCY_NOT_FOUND",
	ErrCodeCatalogUnavailable:  "CATALOG_UNAVAILABLE",
	ErrCodeSessionNotFound:     "SESSION_NOT_FOUND",
	ErrCodeSessionStoreFailed:  "SESSION_STORE_FAILED",
	ErrCodeRecipientMissing:    "RECIPIENT_MISSING",
	ErrCodeNotificationFailed:  "NOTIFICATION_SEND_FAILED",
	ErrCodeTemplateRenderError: "TEMPLATE_RENDER_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeSessionStoreFailed,
		ErrCodeNotificationFailed:
		return 3
	default:
		return 0 // business errors: no retry
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

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INTAKE") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "FREQUENCY"):
		return "CATALOG"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "RECIPIENT") || strings.Contains(codeStr, "TEMPLATE"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
