// Package payment provides the payment authority abstraction consumed by the
// booking orchestrator. The core treats payment as a black-box predicate:
// accept or decline after a bounded delay.
package payment

import (
	"context"
	"time"

	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/errors"
	"github.com/railtix/railtix/pkg/logger"
)

// StubAuthority simulates a payment processor with a fixed delay and a fixed
// verdict. The default authority accepts every request after the delay.
type StubAuthority struct {
	delay   time.Duration
	decline bool
	logger  logger.Logger
}

// NewStubAuthority creates the always-accepting stub with the given delay.
func NewStubAuthority(delay time.Duration, log logger.Logger) *StubAuthority {
	if delay < 0 {
		delay = constants.PaymentDelay
	}
	return &StubAuthority{
		delay:  delay,
		logger: log.WithComponent("payment"),
	}
}

// NewDecliningAuthority creates a stub that declines every authorization.
// Tests use it to verify that a payment failure leaves inventory untouched.
func NewDecliningAuthority(delay time.Duration) *StubAuthority {
	return &StubAuthority{
		delay:   delay,
		decline: true,
		logger:  logger.NewNoopLogger(),
	}
}

// Authorize blocks for the configured delay, honoring context cancellation,
// and returns nil on acceptance.
func (a *StubAuthority) Authorize(ctx context.Context, quantity int) error {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return errors.ErrPaymentFailed("payment interrupted").WithCause(ctx.Err())
		}
	}

	if a.decline {
		return errors.ErrPaymentFailed("payment declined")
	}

	a.logger.Debug(ctx, "Payment authorized", logger.Int("quantity", quantity))
	return nil
}
