// Package service defines the domain service contracts the booking
// orchestrator composes. Implementations live under internal/infrastructure.
package service

import (
	"context"
	"time"

	"github.com/railtix/railtix/internal/domain/models"
	"github.com/railtix/railtix/pkg/constants"
)

// RateLimitService enforces a sliding-window limit per identity. Checking and
// recording are deliberately separate steps: the orchestrator checks early in
// the validation chain and records only after every other check has passed, so
// rejected attempts leave no trace in the window.
type RateLimitService interface {
	// Allow reports whether the identity may proceed at instant now. It prunes
	// entries older than the window and rejects when the remaining count has
	// reached the per-window maximum (inclusive comparison).
	Allow(ctx context.Context, identity string, now time.Time) (bool, error)

	// Record appends now to the identity's window.
	Record(ctx context.Context, identity string, now time.Time) error

	// Remaining reports how many attempts the identity has left in the current
	// window. Useful for operator messages and monitoring.
	Remaining(ctx context.Context, identity string, now time.Time) (int, error)
}

// FraudDetectionService tracks device/IP observations per user and applies the
// two suspicion rules: an oversized per-user device/IP set, and an IP already
// seen under a different user.
type FraudDetectionService interface {
	// IsSuspicious evaluates both rules without recording anything.
	IsSuspicious(userID, deviceID, ipAddress string) bool

	// RecordObservation stores the device/IP pair under the user.
	RecordObservation(userID, deviceID, ipAddress string)
}

// InventoryLedger is the authoritative counter of remaining tickets. Reserve
// performs check and decrement as one atomic step; no partial reservations and
// no negative inventory are ever observable.
type InventoryLedger interface {
	// Reserve takes n tickets if at least n are available.
	Reserve(n int) bool

	// Available returns the remaining ticket count.
	Available() int

	// Total returns the initial pool size.
	Total() int
}

// IdentityValidator is the pluggable credential predicate. The default
// implementation accepts every caller; a real verifier can be substituted
// without touching the orchestrator.
type IdentityValidator interface {
	Validate(ctx context.Context, identity models.ClientIdentity) bool
}

// PaymentAuthority is the black-box payment predicate. Authorize blocks for a
// bounded delay and reports accept or decline. The orchestrator consults it
// before any state mutation, so a decline leaves inventory untouched.
type PaymentAuthority interface {
	Authorize(ctx context.Context, quantity int) error
}

// BookingEventSink receives one event per booking attempt. Implementations
// must not fail the booking path: errors are for the caller to log, nothing
// more.
type BookingEventSink interface {
	Emit(ctx context.Context, event models.BookingEvent) error
	Close() error
}

// Metrics receives booking counters. The Prometheus implementation lives in
// internal/infrastructure/monitoring; the orchestrator tolerates a nil value.
type Metrics interface {
	RecordBooking(outcome constants.BookingOutcome, reason string, duration time.Duration)
	RecordRateLimitHit(scope string)
	RecordFraudFlag()
}

// AllowAllValidator is the default identity predicate: always true. It is a
// named extension point rather than an inlined constant so deployments can
// swap in a real verifier.
type AllowAllValidator struct{}

// Validate accepts every identity.
func (AllowAllValidator) Validate(ctx context.Context, identity models.ClientIdentity) bool {
	return true
}
