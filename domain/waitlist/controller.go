package waitlist

import (
	"net/http"

	"github.com/buildrs/buildrs-api/config/router"
	apperrors "github.com/buildrs/buildrs-api/pkg/errors"
)

func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewRESTController(
		"WaitlistController",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPostHandler(c, "", registerHandler(service))
			rs.AddGetHandler(c, "count", countHandler(service))
		},
	)
}

func registerHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req RegisterRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Register(ctx.Request.Context(), req.Email)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.PlainResult(http.StatusCreated, response)
	}
}

func countHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		count, err := service.GetCount(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.PlainResult(http.StatusOK, CountResponse{Count: count})
	}
}
