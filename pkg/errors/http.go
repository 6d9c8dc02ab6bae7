package errors

import (
	"errors"
)

var statusByType = map[string]int{
	ErrorTypeDuplicateEntry: StatusBadRequest,
	ErrorTypeInvalidEmail:   StatusUnprocessableEntity,
	ErrorTypeDatabaseError:  StatusInternalServerError,
}

// HTTPStatusCode maps an error to the status it is rendered with. Anything
// that is not an AppError is a 500.
func HTTPStatusCode(err error) int {
	if status, ok := statusByType[GetErrorType(err)]; ok {
		return status
	}
	return StatusInternalServerError
}

func GetHumanReadableMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	// Never echo driver or stack text back to clients.
	return genericErrorMessage
}
