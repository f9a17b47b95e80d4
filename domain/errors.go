package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of domain error
type ErrorCode string

const (
	// ErrCodeNotFound indicates that a requested resource was not found
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates that the input provided is invalid
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeUnknownZone indicates a time zone name the tz database does not know
	ErrCodeUnknownZone ErrorCode = "UNKNOWN_ZONE"

	// ErrCodeInconsistentOffset indicates an explicit offset that disagrees with the zone
	ErrCodeInconsistentOffset ErrorCode = "INCONSISTENT_OFFSET"

	// ErrCodeNonExistentTime indicates a civil time skipped by a forward transition
	ErrCodeNonExistentTime ErrorCode = "NON_EXISTENT_TIME"

	// ErrCodeAmbiguousTime indicates a civil time repeated by a backward transition
	ErrCodeAmbiguousTime ErrorCode = "AMBIGUOUS_TIME"

	// ErrCodeMalformedString indicates a canonical or ISO string that cannot be parsed
	ErrCodeMalformedString ErrorCode = "MALFORMED_STRING"

	// ErrCodeUnsupportedOperation indicates an operation undefined for the operands
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"

	// ErrCodeIncompatibleContext indicates two instants whose zone or offset cannot be reconciled
	ErrCodeIncompatibleContext ErrorCode = "INCOMPATIBLE_CONTEXT"

	// ErrCodeRepository indicates a repository operation error
	ErrCodeRepository ErrorCode = "REPOSITORY_ERROR"

	// ErrCodeExport indicates a series export error
	ErrCodeExport ErrorCode = "EXPORT_ERROR"

	// ErrCodeFileOperation indicates a file operation error
	ErrCodeFileOperation ErrorCode = "FILE_OPERATION_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *DomainError) WithDetails(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// NewDomainErrorWithCause creates a new domain error with an underlying cause
func NewDomainErrorWithCause(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// Common domain errors

// ErrNotFound creates a not found error
func ErrNotFound(resource string, id string) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetails("resource", resource).
		WithDetails("id", id)
}

// ErrInvalidInput creates an invalid input error
func ErrInvalidInput(field string, reason string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

// ErrRepository creates a repository error
func ErrRepository(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeRepository, fmt.Sprintf("repository error in %s", operation), err).
		WithDetails("operation", operation)
}

// IsErrorCode checks if an error, or anything it wraps, has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// Time and zone errors

// ErrUnknownZone creates an unknown zone error
func ErrUnknownZone(name string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeUnknownZone, fmt.Sprintf("unknown time zone: %q", name), err).
		WithDetails("zone", name)
}

// ErrZoneDetection creates an error for a host whose zone could not be detected
func ErrZoneDetection(fallback string) *DomainError {
	return NewDomainError(ErrCodeUnknownZone, fmt.Sprintf("failed to detect system time zone, using %s", fallback)).
		WithDetails("fallback", fallback)
}

// ErrInconsistentOffset creates an error for an offset that disagrees with the zone
func ErrInconsistentOffset(offset, expected float64, zone string) *DomainError {
	return NewDomainError(ErrCodeInconsistentOffset,
		fmt.Sprintf("offset %v is not consistent with time zone %s (expected %v)", offset, zone, expected)).
		WithDetails("offset", offset).
		WithDetails("expected", expected).
		WithDetails("zone", zone)
}

// ErrNonExistentTime creates an error for a civil time skipped in a zone
func ErrNonExistentTime(civil string, zone string) *DomainError {
	return NewDomainError(ErrCodeNonExistentTime,
		fmt.Sprintf("time %s does not exist on time zone %s", civil, zone)).
		WithDetails("civil", civil).
		WithDetails("zone", zone)
}

// ErrAmbiguousTime creates an error for a civil time that occurs twice in a zone
func ErrAmbiguousTime(civil string, zone string) *DomainError {
	return NewDomainError(ErrCodeAmbiguousTime,
		fmt.Sprintf("time %s is ambiguous on time zone %s", civil, zone)).
		WithDetails("civil", civil).
		WithDetails("zone", zone)
}

// ErrMalformedString creates a parse error for a textual representation
func ErrMalformedString(kind string, value string, reason string) *DomainError {
	return NewDomainError(ErrCodeMalformedString, fmt.Sprintf("malformed %s %q: %s", kind, value, reason)).
		WithDetails("kind", kind).
		WithDetails("value", value).
		WithDetails("reason", reason)
}

// ErrUnsupportedOperation creates an error for an operation that is not defined
func ErrUnsupportedOperation(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeUnsupportedOperation, fmt.Sprintf("unsupported operation %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrIncompatibleContext creates an error for instants whose zone or offset cannot be combined
func ErrIncompatibleContext(left string, right string) *DomainError {
	return NewDomainError(ErrCodeIncompatibleContext,
		fmt.Sprintf("incompatible time zone or offset: %s and %s", left, right)).
		WithDetails("left", left).
		WithDetails("right", right)
}

// Export errors

// ErrExport creates a series export error
func ErrExport(format string, reason string) *DomainError {
	return NewDomainError(ErrCodeExport, fmt.Sprintf("%s export error: %s", format, reason)).
		WithDetails("format", format).
		WithDetails("reason", reason)
}

// ErrExportWithCause creates a series export error with cause
func ErrExportWithCause(format string, reason string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeExport, fmt.Sprintf("%s export error: %s", format, reason), err).
		WithDetails("format", format).
		WithDetails("reason", reason)
}

// File operation errors

// ErrFileOperation creates a file operation error
func ErrFileOperation(operation string, path string, reason string) *DomainError {
	return NewDomainError(ErrCodeFileOperation, fmt.Sprintf("file operation error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("path", path).
		WithDetails("reason", reason)
}

// ErrFileOperationWithCause creates a file operation error with cause
func ErrFileOperationWithCause(operation string, path string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeFileOperation, fmt.Sprintf("file operation error in %s", operation), err).
		WithDetails("operation", operation).
		WithDetails("path", path)
}

// ErrPathTraversal creates a path traversal error
func ErrPathTraversal(path string) *DomainError {
	return NewDomainError(ErrCodeFileOperation, "path contains directory traversal").
		WithDetails("path", path).
		WithDetails("securityViolation", "directory_traversal")
}

// ErrSystemDirectory creates a system directory access error
func ErrSystemDirectory(path string) *DomainError {
	return NewDomainError(ErrCodeFileOperation, "cannot write to system directory").
		WithDetails("path", path).
		WithDetails("securityViolation", "system_directory_access")
}
