package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/pkg/constants"
	apperrors "github.com/buildrs/buildrs-api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/buildrs/buildrs-api/domain/waitlist"

var emailRule = fmt.Sprintf("required,email,max=%d", constants.MaxEmailLength)

type WaitlistService interface {
	// Register normalizes and stores an email address.
	Register(ctx context.Context, rawEmail string) (*RegisterResponse, error)

	// GetCount returns the number of registered addresses.
	GetCount(ctx context.Context) (int64, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	publisher  SignupPublisher
	metrics    *SignupMetrics
	validate   *validator.Validate
	tracer     trace.Tracer
}

// NewWaitlistService wires the service. publisher and metrics may be nil.
func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, publisher SignupPublisher, metrics *SignupMetrics) WaitlistService {
	return &waitlistService{
		logger:     logger,
		repository: repository,
		publisher:  publisher,
		metrics:    metrics,
		validate:   validator.New(),
		tracer:     otel.Tracer(tracerName),
	}
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (s *waitlistService) Register(ctx context.Context, rawEmail string) (response *RegisterResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "waitlist.Register")
	outcome := outcomeError
	defer func() {
		s.metrics.observe(outcome)
		endSpan(span, outcome, err)
	}()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)
	email := NormalizeEmail(rawEmail)

	if verr := s.validate.Var(email, emailRule); verr != nil {
		outcome = outcomeInvalid
		logger.Info("Rejected invalid waitlist email", "error", verr)
		return nil, apperrors.NewInvalidEmailError(msgInvalidEmail, fmt.Errorf("%w: %v", ErrInvalidEmail, verr))
	}

	exists, lookupErr := s.repository.Exists(ctx, email)
	if lookupErr != nil {
		logger.Warn("Waitlist lookup failed; relying on insert", "error", lookupErr)
	} else if exists {
		outcome = outcomeDuplicate
		return nil, apperrors.NewDuplicateEntryError(msgDuplicateEmail, ErrDuplicateEmail)
	}

	entry, err := s.repository.Insert(ctx, email)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			outcome = outcomeDuplicate
			logger.Info("Concurrent duplicate registration rejected by storage")
			return nil, err
		}
		logger.Error("Failed to insert waitlist entry", "error", err)
		return nil, err
	}

	outcome = outcomeCreated
	logger.Info("Waitlist entry created", "id", entry.ID)

	if s.publisher != nil {
		if perr := s.publisher.PublishSignup(ctx, ToSignupEvent(entry)); perr != nil {
			logger.Warn("Failed to publish signup event", "id", entry.ID, "error", perr)
		}
	}

	resp := ToRegisterResponse(entry)
	return &resp, nil
}

func (s *waitlistService) GetCount(ctx context.Context) (int64, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	count, err := s.repository.Count(ctx)
	if err != nil {
		logger.Error("Failed to count waitlist entries", "error", err)
		return 0, err
	}

	return count, nil
}

func endSpan(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String("waitlist.outcome", outcome))
	if err != nil && outcome == outcomeError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
