package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("NewDomainError", func(t *testing.T) {
		err := NewDomainError(ErrCodeNotFound, "series not found")

		assert.NotNil(t, err)
		assert.Equal(t, ErrCodeNotFound, err.Code)
		assert.Equal(t, "series not found", err.Message)
		assert.Equal(t, "[NOT_FOUND] series not found", err.Error())
		assert.NotNil(t, err.Details)
		assert.Nil(t, err.Err)
	})

	t.Run("NewDomainErrorWithCause", func(t *testing.T) {
		cause := errors.New("database is locked")
		err := NewDomainErrorWithCause(ErrCodeRepository, "failed to save series", cause)

		assert.Equal(t, "[REPOSITORY_ERROR] failed to save series: database is locked", err.Error())
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("WithDetails", func(t *testing.T) {
		err := NewDomainError(ErrCodeInvalidInput, "invalid span").
			WithDetails("field", "span").
			WithDetails("value", "1X")

		assert.Equal(t, "span", err.Details["field"])
		assert.Equal(t, "1X", err.Details["value"])
	})
}

func TestTimeErrors(t *testing.T) {
	t.Run("ErrUnknownZone", func(t *testing.T) {
		cause := errors.New("unknown time zone Mars/Olympus")
		err := ErrUnknownZone("Mars/Olympus", cause)

		assert.Equal(t, ErrCodeUnknownZone, err.Code)
		assert.Contains(t, err.Message, `"Mars/Olympus"`)
		assert.Equal(t, "Mars/Olympus", err.Details["zone"])
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("ErrInconsistentOffset", func(t *testing.T) {
		err := ErrInconsistentOffset(3600, 7200, "Europe/Rome")

		assert.Equal(t, ErrCodeInconsistentOffset, err.Code)
		assert.Contains(t, err.Message, "offset 3600 is not consistent with time zone Europe/Rome")
		assert.Equal(t, float64(7200), err.Details["expected"])
	})

	t.Run("ErrNonExistentTime", func(t *testing.T) {
		err := ErrNonExistentTime("2023-03-26 02:15:00", "Europe/Rome")

		assert.Equal(t, ErrCodeNonExistentTime, err.Code)
		assert.Equal(t, "[NON_EXISTENT_TIME] time 2023-03-26 02:15:00 does not exist on time zone Europe/Rome", err.Error())
	})

	t.Run("ErrAmbiguousTime", func(t *testing.T) {
		err := ErrAmbiguousTime("2023-10-29 02:15:00", "Europe/Rome")

		assert.Equal(t, ErrCodeAmbiguousTime, err.Code)
		assert.Contains(t, err.Message, "is ambiguous on time zone Europe/Rome")
	})

	t.Run("ErrMalformedString", func(t *testing.T) {
		err := ErrMalformedString("span", "1X", "unknown unit")

		assert.Equal(t, ErrCodeMalformedString, err.Code)
		assert.Equal(t, `malformed span "1X": unknown unit`, err.Message)
		assert.Equal(t, "unknown unit", err.Details["reason"])
	})

	t.Run("ErrUnsupportedOperation", func(t *testing.T) {
		err := ErrUnsupportedOperation("floor", "composite span")

		assert.Equal(t, ErrCodeUnsupportedOperation, err.Code)
		assert.Equal(t, "floor", err.Details["operation"])
	})

	t.Run("ErrIncompatibleContext", func(t *testing.T) {
		err := ErrIncompatibleContext("UTC", "Europe/Rome")

		assert.Equal(t, ErrCodeIncompatibleContext, err.Code)
		assert.Contains(t, err.Message, "UTC and Europe/Rome")
	})
}

func TestExportErrors(t *testing.T) {
	t.Run("ErrExport", func(t *testing.T) {
		err := ErrExport("cbor", "empty series")

		assert.Equal(t, ErrCodeExport, err.Code)
		assert.Equal(t, "cbor export error: empty series", err.Message)
	})

	t.Run("ErrExportWithCause", func(t *testing.T) {
		cause := errors.New("short write")
		err := ErrExportWithCause("jsonl", "failed to flush", cause)

		assert.Equal(t, ErrCodeExport, err.Code)
		assert.Equal(t, "jsonl", err.Details["format"])
		assert.Equal(t, cause, err.Unwrap())
	})
}

func TestFileOperationErrors(t *testing.T) {
	t.Run("ErrFileOperation", func(t *testing.T) {
		err := ErrFileOperation("create", "/path/to/file.csv", "permission denied")

		assert.Equal(t, ErrCodeFileOperation, err.Code)
		assert.Contains(t, err.Message, "file operation error in create")
		assert.Equal(t, "/path/to/file.csv", err.Details["path"])
	})

	t.Run("ErrFileOperationWithCause", func(t *testing.T) {
		cause := errors.New("EACCES")
		err := ErrFileOperationWithCause("write", "/path/to/file.csv", cause)

		assert.Equal(t, "write", err.Details["operation"])
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("ErrPathTraversal", func(t *testing.T) {
		err := ErrPathTraversal("../../../etc/passwd")

		assert.Equal(t, "directory_traversal", err.Details["securityViolation"])
	})

	t.Run("ErrSystemDirectory", func(t *testing.T) {
		err := ErrSystemDirectory("/etc/test.csv")

		assert.Equal(t, "system_directory_access", err.Details["securityViolation"])
	})
}

func TestErrorHelpers(t *testing.T) {
	t.Run("IsErrorCode", func(t *testing.T) {
		err := ErrNotFound("series", "123")

		assert.True(t, IsErrorCode(err, ErrCodeNotFound))
		assert.False(t, IsErrorCode(err, ErrCodeInvalidInput))

		standardErr := errors.New("some error")
		assert.False(t, IsErrorCode(standardErr, ErrCodeNotFound))
	})

	t.Run("IsErrorCode through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("shift failed: %w", ErrAmbiguousTime("2023-10-29 02:15:00", "Europe/Rome"))

		assert.True(t, IsErrorCode(wrapped, ErrCodeAmbiguousTime))
		assert.Equal(t, ErrCodeAmbiguousTime, GetErrorCode(wrapped))
	})

	t.Run("GetErrorCode", func(t *testing.T) {
		err := ErrInvalidInput("span", "invalid format")

		assert.Equal(t, ErrCodeInvalidInput, GetErrorCode(err))

		standardErr := errors.New("some error")
		assert.Equal(t, ErrorCode(""), GetErrorCode(standardErr))
	})
}
