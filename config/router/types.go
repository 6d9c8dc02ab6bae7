package router

import (
	"github.com/gin-gonic/gin"
)

type (
	RequestContext = gin.Context
	MiddlewareFunc = gin.HandlerFunc
)

// ServiceResult is rendered as the {code, data, message} envelope unless Body is
// set, in which case Body is written as-is.
type ServiceResult struct {
	StatusCode int    `json:"code"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Body       any    `json:"-"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	return gin.H{
		"code":    result.StatusCode,
		"data":    result.Data,
		"message": result.Message,
	}
}

func (result *ServiceResult) Payload() any {
	if result.Body != nil {
		return result.Body
	}
	return result.ToJSON()
}

// IsServerError reports a 5xx result; those are logged before rendering.
func (result *ServiceResult) IsServerError() bool {
	return result.StatusCode >= 500
}
