// Package inventory holds the authoritative ticket counter.
package inventory

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Ledger is a mutex-guarded counter of remaining tickets. The invariant
// 0 <= available <= total holds after every operation; Reserve is the only
// mutation and performs its check and decrement under one lock acquisition.
type Ledger struct {
	mu        sync.Mutex
	total     int
	available int
	gauge     prometheus.Gauge // optional, may be nil
}

// NewLedger creates a ledger with the given pool size.
func NewLedger(total int) *Ledger {
	if total < 0 {
		total = 0
	}
	return &Ledger{total: total, available: total}
}

// WithGauge attaches a gauge that mirrors the available count.
func (l *Ledger) WithGauge(g prometheus.Gauge) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gauge = g
	if g != nil {
		g.Set(float64(l.available))
	}
	return l
}

// Reserve takes n tickets if at least n are available, returning true on
// success. A request for zero or fewer tickets always fails; callers validate
// quantity bounds before reaching the ledger, this is the backstop.
func (l *Ledger) Reserve(n int) bool {
	if n <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if n > l.available {
		return false
	}
	l.available -= n
	if l.gauge != nil {
		l.gauge.Set(float64(l.available))
	}
	return true
}

// Available returns the remaining ticket count.
func (l *Ledger) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.available
}

// Total returns the initial pool size.
func (l *Ledger) Total() int {
	return l.total
}
