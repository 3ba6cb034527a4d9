// Package audit provides the booking event sinks: a gorm-backed archive, a
// Kafka publisher, and a no-op default. Sinks are observability, not
// durability; the authoritative booking state stays in process memory, and a
// sink failure never fails a booking.
package audit

import (
	"context"

	"github.com/railtix/railtix/internal/domain/models"
	"github.com/railtix/railtix/internal/domain/service"
)

// NoopSink discards every event. Used when no archive or broker is configured.
type NoopSink struct{}

// NewNoopSink creates the discarding sink.
func NewNoopSink() service.BookingEventSink {
	return NoopSink{}
}

// Emit discards the event.
func (NoopSink) Emit(ctx context.Context, event models.BookingEvent) error {
	return nil
}

// Close is a no-op.
func (NoopSink) Close() error {
	return nil
}

// MultiSink fans an event out to several sinks, returning the first error
// after attempting all of them.
type MultiSink struct {
	sinks []service.BookingEventSink
}

// NewMultiSink combines sinks. With no arguments it behaves like NoopSink.
func NewMultiSink(sinks ...service.BookingEventSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Emit delivers the event to every sink.
func (m *MultiSink) Emit(ctx context.Context, event models.BookingEvent) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Emit(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every sink.
func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
