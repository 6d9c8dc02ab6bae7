package router

import (
	"fmt"
	"net/http"
	"path"
)

// NewRESTController mounts every handler of the controller under mountPoint.
// Routes are unversioned: the public paths are part of the contract.
func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: path.Join("/", mountPoint),
		prepare:    prepare,
	}
}

// normalizePath joins the controller mount point with a relative route,
// always yielding a rooted path without a trailing slash.
func normalizePath(controller *RESTController, relativePath string) string {
	return path.Join("/", controller.mountPoint, relativePath)
}

func routeKey(method, fullPath string) string {
	return method + " " + fullPath
}

// bind records controller as the owner of method+fullPath. Two controllers
// claiming one route is a wiring bug, so it panics at startup.
func (routerService *RouterService) bind(controller *RESTController, method, fullPath string) {
	key := routeKey(method, fullPath)
	if owner, taken := routerService.handlerToControllerMap[key]; taken {
		panic(fmt.Sprintf("route %s is already registered by controller %q", key, owner.name))
	}

	routerService.handlerToControllerMap[key] = controller
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)

		if result == nil {
			GetLogger(c).Error("Handler returned no result", "route", c.FullPath())
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("An unexpected error occurred").ToJSON())
			return
		}

		if result.IsServerError() {
			GetLogger(c).Error("Request failed", "status", result.StatusCode, "message", result.Message, "route", c.FullPath())
		}

		c.JSON(result.StatusCode, result.Payload())
	}
}

func (routerService *RouterService) addHandler(
	method string,
	controller *RESTController,
	relativePath string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	fullPath := normalizePath(controller, relativePath)
	routerService.bind(controller, method, fullPath)
	controller.handlerCount++

	routerService.engine.Handle(method, fullPath, append(middlewares, createHandler(handler))...)
	routerService.logger.Debug("Handler registered", "method", method, "path", fullPath, "controller", controller.name)
}

func (routerService *RouterService) AddPostHandler(controller *RESTController, relativePath string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodPost, controller, relativePath, handler, middlewares...)
}

func (routerService *RouterService) AddGetHandler(controller *RESTController, relativePath string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodGet, controller, relativePath, handler, middlewares...)
}
