package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railtix/railtix/internal/config"
	"github.com/railtix/railtix/internal/domain/models"
	"github.com/railtix/railtix/internal/infrastructure/audit"
	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/logger"
)

func newArchive(t *testing.T) *audit.GormArchive {
	t.Helper()

	a, err := audit.NewGormArchive(&config.ArchiveConfig{
		Driver: "sqlite",
		DSN:    "file::memory:?cache=shared",
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestGormArchive_EmitAndQuery(t *testing.T) {
	a := newArchive(t)
	ctx := context.Background()

	events := []models.BookingEvent{
		{
			BookingID: "b-1",
			UserID:    "alice",
			DeviceID:  "dev-1",
			IPAddress: "10.0.0.1",
			Quantity:  3,
			Outcome:   constants.OutcomeConfirmed,
			Codes:     "ABC0001,DEF0002,GHI0003",
			CreatedAt: time.Now().Add(-time.Minute),
		},
		{
			BookingID: "b-2",
			UserID:    "alice",
			Quantity:  6,
			Outcome:   constants.OutcomeRejected,
			Reason:    string(constants.ErrCodeInvalidInput),
			CreatedAt: time.Now(),
		},
		{
			BookingID: "b-3",
			UserID:    "bob",
			Quantity:  1,
			Outcome:   constants.OutcomeConfirmed,
			CreatedAt: time.Now(),
		},
	}
	for _, e := range events {
		require.NoError(t, a.Emit(ctx, e))
	}

	got, err := a.RecentByUser(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b-2", got[0].BookingID, "newest first")
	assert.Equal(t, constants.OutcomeRejected, got[0].Outcome)
}

func TestGormArchive_RejectsUnknownDriver(t *testing.T) {
	_, err := audit.NewGormArchive(&config.ArchiveConfig{Driver: "oracle", DSN: "x"}, logger.NewNoopLogger())
	assert.Error(t, err)
}

func TestMultiSink_DeliversToAll(t *testing.T) {
	a := newArchive(t)
	sink := audit.NewMultiSink(audit.NewNoopSink(), a)
	ctx := context.Background()

	require.NoError(t, sink.Emit(ctx, models.BookingEvent{
		BookingID: "b-9",
		UserID:    "carol",
		Quantity:  1,
		Outcome:   constants.OutcomeConfirmed,
		CreatedAt: time.Now(),
	}))

	got, err := a.RecentByUser(ctx, "carol", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
