package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/railtix/railtix/internal/infrastructure/payment"
	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/errors"
	"github.com/railtix/railtix/pkg/logger"
)

func TestStubAuthority_AcceptsAfterDelay(t *testing.T) {
	a := payment.NewStubAuthority(20*time.Millisecond, logger.NewNoopLogger())

	start := time.Now()
	err := a.Authorize(context.Background(), 2)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestStubAuthority_DeclineSurfacesPaymentFailure(t *testing.T) {
	a := payment.NewDecliningAuthority(0)

	err := a.Authorize(context.Background(), 1)

	appErr, ok := errors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, constants.ErrCodePaymentFailed, appErr.Code())
}

func TestStubAuthority_HonorsCancellation(t *testing.T) {
	a := payment.NewStubAuthority(5*time.Second, logger.NewNoopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := a.Authorize(ctx, 1)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
