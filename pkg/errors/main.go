package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	StatusNoContent           = http.StatusNoContent
	StatusBadRequest          = http.StatusBadRequest
	StatusNotFound            = http.StatusNotFound
	StatusMethodNotAllowed    = http.StatusMethodNotAllowed
	StatusRequestTimeout      = http.StatusRequestTimeout
	StatusUnprocessableEntity = http.StatusUnprocessableEntity
	StatusInternalServerError = http.StatusInternalServerError
)

const (
	ErrorTypeInvalidEmail   = "INVALID_EMAIL"
	ErrorTypeDuplicateEntry = "DUPLICATE_ENTRY"
	ErrorTypeDatabaseError  = "DATABASE_ERROR"
	ErrorTypeUnknown        = "UNKNOWN_ERROR"
)

const genericErrorMessage = "An unexpected error occurred"

// AppError carries a client-safe Message next to the underlying cause.
// Only Type and Message ever reach a response body.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// NewInvalidEmailError is rendered as 422.
func NewInvalidEmailError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidEmail, message, err)
}

// NewDuplicateEntryError is rendered as 400.
func NewDuplicateEntryError(message string, err error) *AppError {
	return NewAppError(ErrorTypeDuplicateEntry, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(ErrorTypeDatabaseError, message, err)
}

func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnknown
}

// duplicateKeyMarkers are lower-cased fragments of the uniqueness errors
// raised by postgres and sqlite drivers.
var duplicateKeyMarkers = []string{
	"duplicate key",
	"unique constraint",
	"sqlstate 23505",
}

// IsDuplicateKeyError recognizes a uniqueness violation from its message.
// Typed checks (gorm.ErrDuplicatedKey, pgconn codes) belong to the caller;
// this is the fallback for drivers that only expose text.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type == ErrorTypeDuplicateEntry {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
