package waitlist

import (
	"context"
	"strconv"
	"time"

	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/pkg/circuitbreaker"
	"github.com/buildrs/buildrs-api/pkg/constants"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
)

//go:generate mockgen -source=publisher.go -destination=mock_publisher.go -package=waitlist

const signupStreamMaxLen = 10000

// SignupEvent is emitted after an entry has been committed.
type SignupEvent struct {
	ID        uint
	Email     string
	CreatedAt time.Time
}

type SignupPublisher interface {
	PublishSignup(ctx context.Context, event SignupEvent) error
}

type redisSignupPublisher struct {
	client  *redis.Client
	stream  string
	breaker circuitbreaker.CircuitBreaker
}

// NewRedisSignupPublisher appends events to a capped Redis stream. Calls go
// through a circuit breaker; while it is open, events are dropped without a
// round trip. reg may be nil.
func NewRedisSignupPublisher(client *redis.Client, stream string, logger *log.Logger, reg prometheus.Registerer) SignupPublisher {
	if stream == "" {
		stream = constants.DefaultSignupStream
	}

	cfg := circuitbreaker.DefaultConfig()
	cfg.RecoveryTimeout = 30 * time.Second
	cfg.OnStateChange = func(from, to circuitbreaker.CircuitState) {
		logger.Warn("Signup publisher circuit changed state", "stream", stream, "from", from.String(), "to", to.String())
	}

	breaker := circuitbreaker.NewCircuitBreaker(cfg)
	registerCircuitGauges(reg, stream, breaker)

	return &redisSignupPublisher{
		client:  client,
		stream:  stream,
		breaker: breaker,
	}
}

func (p *redisSignupPublisher) PublishSignup(ctx context.Context, event SignupEvent) error {
	return p.breaker.Call(func() error {
		return p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: signupStreamMaxLen,
			Approx: true,
			Values: map[string]interface{}{
				"id":         strconv.FormatUint(uint64(event.ID), 10),
				"email":      event.Email,
				"created_at": event.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
			},
		}).Err()
	})
}
