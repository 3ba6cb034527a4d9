package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/railtix/railtix/pkg/constants"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	BookingAttempts  *prometheus.CounterVec
	BookingLatency   *prometheus.HistogramVec
	RateLimitHits    *prometheus.CounterVec
	FraudFlags       prometheus.Counter
	TicketsAvailable prometheus.Gauge
}

// NewMetrics creates and registers the Prometheus metrics on the default
// registry. Call it once per process; promauto panics on double registration.
func NewMetrics() *Metrics {
	return &Metrics{
		BookingAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "railtix_booking_attempts_total",
				Help: "Total number of booking attempts.",
			},
			[]string{"outcome", "reason"},
		),
		BookingLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "railtix_booking_latency_seconds",
				Help:    "Latency of booking attempts.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "railtix_rate_limit_hits_total",
				Help: "Total number of rate limited booking attempts.",
			},
			[]string{"scope"},
		),
		FraudFlags: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "railtix_fraud_flags_total",
				Help: "Total number of bookings rejected as suspicious.",
			},
		),
		TicketsAvailable: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "railtix_tickets_available",
				Help: "Tickets currently available for sale.",
			},
		),
	}
}

// RecordBooking records the outcome and latency of one booking attempt.
// Reason is the error code for rejections and empty for confirmations.
func (m *Metrics) RecordBooking(outcome constants.BookingOutcome, reason string, duration time.Duration) {
	m.BookingAttempts.WithLabelValues(string(outcome), reason).Inc()
	m.BookingLatency.WithLabelValues(string(outcome)).Observe(duration.Seconds())
}

// RecordRateLimitHit records a rate limited attempt for the given scope.
func (m *Metrics) RecordRateLimitHit(scope string) {
	m.RateLimitHits.WithLabelValues(scope).Inc()
}

// RecordFraudFlag records a booking rejected by the fraud heuristic.
func (m *Metrics) RecordFraudFlag() {
	m.FraudFlags.Inc()
}
