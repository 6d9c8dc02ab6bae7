package waitlist

import (
	"github.com/buildrs/buildrs-api/config/router"
	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type FactoryOptions struct {
	// Redis enables signup events when non-nil.
	Redis        *redis.Client
	SignupStream string
	Registerer   prometheus.Registerer
}

type DefaultWaitlistServiceFactory struct {
	db      *gorm.DB
	logger  *log.Logger
	options FactoryOptions
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, options FactoryOptions) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:      db,
		logger:  logger,
		options: options,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	repository := NewWaitlistRepository(f.db)

	var publisher SignupPublisher
	if f.options.Redis != nil {
		publisher = NewRedisSignupPublisher(f.options.Redis, f.options.SignupStream, f.logger, f.options.Registerer)
		f.logger.Info("Signup events enabled", "stream", f.options.SignupStream)
	}

	return NewWaitlistService(f.logger, repository, publisher, NewSignupMetrics(f.options.Registerer))
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService())
}
