package monitoring

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/buildrs/buildrs-api/config/router"
	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/pkg/constants"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"

	checkUp            = "up"
	checkDown          = "down"
	checkNotConfigured = "not_configured"

	checkTimeout = 2 * time.Second

	rootMessage = "Buildrs API is running! 🚀"
)

// Pinger is any dependency /health can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Cache = Pinger

var errDatabaseNotConfigured = errors.New("database is not configured")

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

type HealthStatus struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Uptime    int64        `json:"uptime"` // seconds
	Checks    HealthChecks `json:"checks"`
}

type MonitoringController struct {
	database  Pinger
	logger    *log.Logger
	cache     Cache
	startTime time.Time
}

func NewMonitoringController(database Pinger, logger *log.Logger, cache Cache) *router.RESTController {
	ctrl := &MonitoringController{
		database:  database,
		logger:    logger,
		cache:     cache,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			routerService.AddGetHandler(controller, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.root(c)
			})

			routerService.AddGetHandler(controller, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func (ctrl *MonitoringController) root(c *router.RequestContext) *router.ServiceResult {
	return router.PlainResult(http.StatusOK, map[string]string{"message": rootMessage})
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	status := ctrl.performHealthChecks(c.Request.Context(), logger)

	if status.Status != statusHealthy {
		return router.PlainResult(http.StatusServiceUnavailable, status)
	}

	return router.PlainResult(http.StatusOK, status)
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(constants.RFC3339DateTimeFormat),
		Uptime:    int64(time.Since(ctrl.startTime).Seconds()),
		Checks: HealthChecks{
			Database: checkUp,
			Cache:    checkNotConfigured,
		},
	}

	if err := ctrl.checkDatabase(ctx); err != nil {
		logger.Error("Database health check failed", "error", err)
		status.Status = statusDegraded
		status.Checks.Database = checkDown
	}

	// Redis only carries signup events, so it never degrades the service.
	if ctrl.cache != nil {
		if err := ctrl.checkCache(ctx); err != nil {
			logger.Warn("Cache health check failed", "error", err)
			status.Checks.Cache = checkDown
		} else {
			status.Checks.Cache = checkUp
		}
	}

	return status
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) error {
	if ctrl.database == nil {
		return errDatabaseNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return ctrl.database.Ping(ctx)
}

func (ctrl *MonitoringController) checkCache(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return ctrl.cache.Ping(ctx)
}
