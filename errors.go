package cohort

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeFetch      ErrorType = "fetch"
	ErrorTypeQuery      ErrorType = "query"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
)

// CohortError represents unified errors from the hydration engine
type CohortError struct {
	Type      ErrorType      `json:"type"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Table     string         `json:"table,omitempty"`
	SubjectID *uuid.UUID     `json:"subjectId,omitempty"`
	RecordID  *int64         `json:"recordId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
}

func (e *CohortError) Error() string {
	switch {
	case e.Table != "":
		return fmt.Sprintf("[%s:%s] table %s: %s", e.Type, e.Code, e.Table, e.Message)
	case e.RecordID != nil:
		return fmt.Sprintf("[%s:%s] record %d: %s", e.Type, e.Code, *e.RecordID, e.Message)
	case e.SubjectID != nil:
		return fmt.Sprintf("[%s:%s] subject %s: %s", e.Type, e.Code, *e.SubjectID, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

func (e *CohortError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a single detail to a CohortError
func (e *CohortError) WithDetail(key string, value any) *CohortError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause adds a cause to a CohortError
func (e *CohortError) WithCause(cause error) *CohortError {
	e.Cause = cause
	return e
}

// WithSubject adds subject context to a CohortError
func (e *CohortError) WithSubject(subjectID uuid.UUID) *CohortError {
	e.SubjectID = &subjectID
	return e
}

// WithRecord adds record context to a CohortError
func (e *CohortError) WithRecord(recordID int64) *CohortError {
	e.RecordID = &recordID
	return e
}

// Error codes
const (
	ErrCodeRecordNotFound = "RECORD_NOT_FOUND"
	ErrCodeFetchFailed    = "FETCH_FAILED"
	ErrCodeQueryFailed    = "QUERY_FAILED"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeTimeout        = "HYDRATION_TIMEOUT"
)

// NewRecordNotFoundError creates an error for a record that does not exist
func NewRecordNotFoundError(recordID int64) *CohortError {
	return &CohortError{
		Type:     ErrorTypeNotFound,
		Code:     ErrCodeRecordNotFound,
		Message:  "maternal record not found",
		RecordID: &recordID,
	}
}

// NewFetchError wraps a failed per-table read. The underlying storage error
// is preserved as the cause.
func NewFetchError(table string, cause error) *CohortError {
	return &CohortError{
		Type:    ErrorTypeFetch,
		Code:    ErrCodeFetchFailed,
		Message: "leaf table read failed",
		Table:   table,
		Cause:   cause,
	}
}

// NewQueryError wraps a failed resolver or schedule query
func NewQueryError(message string, cause error) *CohortError {
	return &CohortError{
		Type:    ErrorTypeQuery,
		Code:    ErrCodeQueryFailed,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates an error for invalid caller input
func NewValidationError(message string) *CohortError {
	return &CohortError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// IsRecordNotFoundError checks if an error is a record not found error
func IsRecordNotFoundError(err error) bool {
	var ce *CohortError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeRecordNotFound
	}
	return false
}

// IsFetchError checks if an error is a per-table fetch error
func IsFetchError(err error) bool {
	var ce *CohortError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeFetch
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ce *CohortError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTypeValidation
	}
	return false
}
