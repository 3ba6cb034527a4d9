// Package service provides the application-level services that orchestrate
// the domain services into complete booking operations.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/railtix/railtix/internal/domain/models"
	domainService "github.com/railtix/railtix/internal/domain/service"
	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/errors"
	"github.com/railtix/railtix/pkg/logger"
	"github.com/railtix/railtix/pkg/ticketcode"
)

// BookingAppService is the single entry point for booking attempts.
type BookingAppService interface {
	// Book runs the full validation chain and, on success, reserves the
	// tickets and issues one code per ticket. On rejection the result carries
	// Success=false and the reason message, and the returned error is the
	// typed rejection for transport-layer status mapping.
	Book(ctx context.Context, req *models.BookingRequest) (*models.BookingResult, error)

	// Available returns the remaining ticket count.
	Available() int

	// Total returns the initial pool size.
	Total() int

	// UserTotal returns the user's cumulative booked ticket count.
	UserTotal(userID string) int
}

// bookingAppServiceImpl sequences the checks in a fixed order, short-circuits
// on the first failure, and mutates state only after every check has passed.
// The whole check-and-mutate sequence runs under one process-wide mutex, so
// no two attempts can interleave between reading and writing inventory or a
// user's cumulative total. At this scale the serialization is acceptable.
type bookingAppServiceImpl struct {
	mu sync.Mutex

	maxPerBooking int
	maxPerUser    int

	validator domainService.IdentityValidator
	fraud     domainService.FraudDetectionService
	limiter   domainService.RateLimitService
	ledger    domainService.InventoryLedger
	payment   domainService.PaymentAuthority
	codes     ticketcode.Generator
	sink      domainService.BookingEventSink
	metrics   domainService.Metrics
	logger    logger.Logger

	// now is injectable so window-expiry tests need no real sleeping.
	now func() time.Time

	userTotals map[string]int
}

// Option customizes the booking service.
type Option func(*bookingAppServiceImpl)

// WithPaymentAuthority enables the payment step. Payment is consulted after
// all validation and before any mutation, so a decline leaves inventory and
// user totals untouched.
func WithPaymentAuthority(p domainService.PaymentAuthority) Option {
	return func(s *bookingAppServiceImpl) { s.payment = p }
}

// WithEventSink attaches an audit sink. Emission is best-effort.
func WithEventSink(sink domainService.BookingEventSink) Option {
	return func(s *bookingAppServiceImpl) { s.sink = sink }
}

// WithMetrics attaches booking metrics.
func WithMetrics(m domainService.Metrics) Option {
	return func(s *bookingAppServiceImpl) { s.metrics = m }
}

// WithClock overrides the time source. Tests use this to drive the rate
// limiter's window without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *bookingAppServiceImpl) { s.now = now }
}

// WithQuantityLimits overrides the per-booking ceiling and per-user cumulative
// cap. Both default to constants.MaxTicketsPerUser.
func WithQuantityLimits(maxPerBooking, maxPerUser int) Option {
	return func(s *bookingAppServiceImpl) {
		s.maxPerBooking = maxPerBooking
		s.maxPerUser = maxPerUser
	}
}

// NewBookingAppService creates the booking orchestrator.
func NewBookingAppService(
	validator domainService.IdentityValidator,
	fraud domainService.FraudDetectionService,
	limiter domainService.RateLimitService,
	ledger domainService.InventoryLedger,
	codes ticketcode.Generator,
	log logger.Logger,
	opts ...Option,
) BookingAppService {
	s := &bookingAppServiceImpl{
		maxPerBooking: constants.MaxTicketsPerUser,
		maxPerUser:    constants.MaxTicketsPerUser,
		validator:     validator,
		fraud:         fraud,
		limiter:       limiter,
		ledger:        ledger,
		codes:         codes,
		logger:        log.WithComponent("booking_service"),
		now:           time.Now,
		userTotals:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book implements the fixed validation order: identity, fraud heuristic, rate
// limit, quantity bounds, per-user cumulative cap, payment, inventory. The
// rate-limit timestamp and the device/IP observation are recorded only on
// success; a rejected attempt leaves every piece of state exactly as it was.
func (s *bookingAppServiceImpl) Book(ctx context.Context, req *models.BookingRequest) (*models.BookingResult, error) {
	start := s.now()

	s.mu.Lock()
	result, appErr := s.bookLocked(ctx, req, start)
	s.mu.Unlock()

	outcome := constants.OutcomeConfirmed
	reason := ""
	if appErr != nil {
		outcome = constants.OutcomeRejected
		reason = string(appErr.Code())
	}
	if s.metrics != nil {
		s.metrics.RecordBooking(outcome, reason, s.now().Sub(start))
	}
	s.emit(ctx, req, result, outcome, reason)

	if appErr != nil {
		return &models.BookingResult{Success: false, Message: appErr.Error()}, appErr
	}
	return result, nil
}

// bookLocked runs the check-and-mutate sequence. Caller holds s.mu.
func (s *bookingAppServiceImpl) bookLocked(ctx context.Context, req *models.BookingRequest, now time.Time) (*models.BookingResult, *errors.AppError) {
	identity := req.Identity

	// 1. Identity validity.
	if !identity.Valid() || !s.validator.Validate(ctx, identity) {
		s.logger.Warn(ctx, "Booking rejected: invalid credentials",
			logger.String("user_id", identity.UserID))
		return nil, errors.ErrInvalidCredentials(identity.UserID)
	}

	// 2. Fraud heuristic.
	if s.fraud.IsSuspicious(identity.UserID, identity.DeviceID, identity.IPAddress) {
		s.logger.Warn(ctx, "Booking rejected: suspicious activity",
			logger.String("user_id", identity.UserID),
			logger.String("device_id", identity.DeviceID),
			logger.String("ip_address", identity.IPAddress))
		if s.metrics != nil {
			s.metrics.RecordFraudFlag()
		}
		return nil, errors.ErrSuspiciousActivity(identity.UserID)
	}

	// 3. Rate limit. Checked here, recorded only after everything else passes.
	allowed, err := s.limiter.Allow(ctx, identity.UserID, now)
	if err != nil {
		s.logger.Error(ctx, "Rate limit check failed", err,
			logger.String("user_id", identity.UserID))
		return nil, errors.ErrInternal("rate limit check failed").WithCause(err)
	}
	if !allowed {
		s.logger.Warn(ctx, "Booking rejected: rate limit exceeded",
			logger.String("user_id", identity.UserID))
		if s.metrics != nil {
			s.metrics.RecordRateLimitHit(string(constants.RateLimitScopeUser))
		}
		return nil, errors.ErrRateLimitExceeded(constants.RateLimitScopeUser, 0)
	}

	// 4. Quantity bounds.
	if req.Quantity < 1 || req.Quantity > s.maxPerBooking {
		return nil, errors.ErrInvalidQuantity(s.maxPerBooking)
	}

	// 5. Per-user cumulative cap.
	if s.userTotals[identity.UserID]+req.Quantity > s.maxPerUser {
		s.logger.Warn(ctx, "Booking rejected: user quota exceeded",
			logger.String("user_id", identity.UserID),
			logger.Int("prior_total", s.userTotals[identity.UserID]),
			logger.Int("requested", req.Quantity))
		return nil, errors.ErrQuotaExceeded(s.maxPerUser)
	}

	// 6. Payment, when configured. Consulted before any mutation.
	if s.payment != nil {
		if err := s.payment.Authorize(ctx, req.Quantity); err != nil {
			s.logger.Warn(ctx, "Booking rejected: payment declined",
				logger.String("user_id", identity.UserID))
			if appErr, ok := errors.AsAppError(err); ok {
				return nil, appErr
			}
			return nil, errors.ErrPaymentFailed(err.Error())
		}
	}

	// 7. Inventory. Reserve is atomic: check and decrement in one step.
	if !s.ledger.Reserve(req.Quantity) {
		s.logger.Warn(ctx, "Booking rejected: insufficient inventory",
			logger.Int("requested", req.Quantity),
			logger.Int("available", s.ledger.Available()))
		return nil, errors.ErrInsufficientInventory(s.ledger.Available())
	}

	// All checks passed and inventory is reserved. Record the side effects.
	if err := s.limiter.Record(ctx, identity.UserID, now); err != nil {
		s.logger.Error(ctx, "Failed to record rate limit timestamp", err,
			logger.String("user_id", identity.UserID))
	}
	s.fraud.RecordObservation(identity.UserID, identity.DeviceID, identity.IPAddress)
	s.userTotals[identity.UserID] += req.Quantity

	ticketCodes := make([]string, req.Quantity)
	for i := range ticketCodes {
		ticketCodes[i] = s.codes.Generate()
	}

	result := &models.BookingResult{
		Success:     true,
		Message:     fmt.Sprintf("Successfully booked %d ticket(s)", req.Quantity),
		BookingID:   uuid.NewString(),
		TicketCodes: ticketCodes,
		Remaining:   s.ledger.Available(),
	}

	s.logger.Info(ctx, "Booking confirmed",
		logger.String("booking_id", result.BookingID),
		logger.String("user_id", identity.UserID),
		logger.Int("quantity", req.Quantity),
		logger.Int("remaining", result.Remaining))

	return result, nil
}

// Available returns the remaining ticket count.
func (s *bookingAppServiceImpl) Available() int {
	return s.ledger.Available()
}

// Total returns the initial pool size.
func (s *bookingAppServiceImpl) Total() int {
	return s.ledger.Total()
}

// UserTotal returns the user's cumulative booked ticket count.
func (s *bookingAppServiceImpl) UserTotal(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userTotals[userID]
}

// emit sends the attempt to the audit sink. Failures are logged, never
// propagated.
func (s *bookingAppServiceImpl) emit(ctx context.Context, req *models.BookingRequest, result *models.BookingResult, outcome constants.BookingOutcome, reason string) {
	if s.sink == nil {
		return
	}

	event := models.BookingEvent{
		BookingID: uuid.NewString(),
		UserID:    req.Identity.UserID,
		DeviceID:  req.Identity.DeviceID,
		IPAddress: req.Identity.IPAddress,
		Quantity:  req.Quantity,
		Outcome:   outcome,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	if result != nil && result.Success {
		event.BookingID = result.BookingID
		event.Codes = strings.Join(result.TicketCodes, ",")
	}

	if err := s.sink.Emit(ctx, event); err != nil {
		s.logger.Error(ctx, "Failed to emit booking event", err,
			logger.String("booking_id", event.BookingID))
	}
}
