package router

import (
	"net/http"

	"github.com/buildrs/buildrs-api/internal/log"
	apperrors "github.com/buildrs/buildrs-api/pkg/errors"
)

// GetLogger returns the request-scoped logger injected by the router, or a
// fresh one tagged with the request's correlation id.
func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusOK, Data: data, Message: message}
}

// PlainResult writes body without the envelope.
func PlainResult(statusCode int, body any) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, Body: body}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return ErrorResult(http.StatusBadRequest, message, payload)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return ErrorResult(http.StatusInternalServerError, message, nil)
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, Data: data, Message: message}
}

// AppErrorResult renders err with the status and client-safe message of its
// AppError; anything else becomes a generic 500.
func AppErrorResult(err error) *ServiceResult {
	return ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
}
