package domain

import (
	"fmt"
	"strings"
	"time"
)

// APIError represents a standardized error response for the HTTP and MCP surfaces
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeIncomplete        = "INCOMPLETE_ASSESSMENT"
	ErrCodeContractViolation = "CONTRACT_VIOLATION"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeRateLimit         = "RATE_LIMIT_EXCEEDED"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeStorage           = "STORAGE_ERROR"
	ErrCodeInternalServer    = "INTERNAL_SERVER_ERROR"
)

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// ValidationError represents an answer rejected at the input layer
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ContractViolation signals that a caller asked for an evaluation the engine cannot honour:
// required answers are missing, answers reference questions outside the schema, or an answer
// does not fit its question's kind, options or bounds. It is a
// programmer error on the caller's side and is never recovered silently.
type ContractViolation struct {
	Reason  string       `json:"reason"`
	Missing []QuestionID `json:"missing,omitempty"`
	Unknown []QuestionID `json:"unknown,omitempty"`
	Invalid []QuestionID `json:"invalid,omitempty"`
}

// Error implements the error interface
func (e *ContractViolation) Error() string {
	var b strings.Builder
	b.WriteString(ErrContractViolation.Error())
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " (missing: %s)", joinIDs(e.Missing))
	}
	if len(e.Unknown) > 0 {
		fmt.Fprintf(&b, " (unknown: %s)", joinIDs(e.Unknown))
	}
	if len(e.Invalid) > 0 {
		fmt.Fprintf(&b, " (invalid: %s)", joinIDs(e.Invalid))
	}
	return b.String()
}

// Unwrap lets errors.Is match ErrContractViolation
func (e *ContractViolation) Unwrap() error {
	return ErrContractViolation
}

func joinIDs(ids []QuestionID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
