package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email address",
	"min":      "Value is too short or too small",
	"max":      "Value is too long or too large",
	"len":      "Value must be exact length",
	"numeric":  "Value must be numeric",
	"url":      "Invalid URL format",
}

func msgForTag(tag string) string {
	if msg, ok := tagMessages[tag]; ok {
		return msg
	}
	return "Invalid value"
}

func msgForFieldError(fieldError validator.FieldError) string {
	if fieldError.Param() == "" {
		return msgForTag(fieldError.Tag())
	}

	switch fieldError.Tag() {
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("Must not exceed %s characters", fieldError.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fieldError.Param())
	default:
		return msgForTag(fieldError.Tag())
	}
}

func getJSONFieldName(structType reflect.Type, fieldName string) string {
	if structType == nil {
		return fieldName
	}

	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fieldName
	}

	return name
}

// FormatValidationErrors turns binding errors into per-field messages. It
// returns nil for errors that carry no field information (e.g. truncated JSON).
func FormatValidationErrors(err error, model interface{}) []ValidationErrorResponse {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{
			{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
			},
		}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	errorsList := make([]ValidationErrorResponse, len(validationErrors))
	for i, fieldError := range validationErrors {
		errorsList[i] = ValidationErrorResponse{
			Field:   getJSONFieldName(structType, fieldError.Field()),
			Message: msgForFieldError(fieldError),
		}
	}

	return errorsList
}
