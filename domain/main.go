package domain

import (
	"github.com/buildrs/buildrs-api/config"
	"github.com/buildrs/buildrs-api/domain/monitoring"
	"github.com/buildrs/buildrs-api/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	routerService := appConfig.RouterService

	routerService.MountController(monitoring.NewMonitoringController(waitlist.NewWaitlistRepository(appConfig.DB), appConfig.Logger, appConfig.Cache))

	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, waitlist.FactoryOptions{
		Redis:        config.GetRedisClient(appConfig.Cache),
		SignupStream: appConfig.Config.SignupStream,
		Registerer:   routerService.MetricsRegisterer(),
	})
	routerService.MountController(waitlistFactory.CreateController())
}
