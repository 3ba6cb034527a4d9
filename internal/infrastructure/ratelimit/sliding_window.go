// Package ratelimit provides sliding-window rate limiting for booking
// identities. The in-memory implementation is the default; a Redis-backed
// implementation exists for deployments running more than one instance.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow is an in-memory sliding-window limiter. Each identity owns an
// ordered slice of timestamps; entries older than the window are pruned lazily
// on every check. Window length and per-window maximum are parameters, not
// constants: the API variant runs 15m/10 and the console variant 30m/3 on the
// same type.
type SlidingWindow struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string][]time.Time
}

// NewSlidingWindow creates a limiter allowing max events per window.
func NewSlidingWindow(window time.Duration, max int) *SlidingWindow {
	return &SlidingWindow{
		window:  window,
		max:     max,
		entries: make(map[string][]time.Time),
	}
}

// Allow prunes the identity's window and reports whether another event fits.
// The comparison is inclusive: exactly max remaining entries rejects.
func (s *SlidingWindow) Allow(ctx context.Context, identity string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.prune(identity, now)
	return len(kept) < s.max, nil
}

// Record appends now to the identity's window.
func (s *SlidingWindow) Record(ctx context.Context, identity string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[identity] = append(s.entries[identity], now)
	return nil
}

// Remaining reports how many events the identity has left in the window.
func (s *SlidingWindow) Remaining(ctx context.Context, identity string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.prune(identity, now)
	remaining := s.max - len(kept)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// prune drops entries older than now minus the window and returns the kept
// slice. Caller holds the lock. An entry exactly at the cutoff stays: only
// strictly older timestamps are evicted.
func (s *SlidingWindow) prune(identity string, now time.Time) []time.Time {
	cutoff := now.Add(-s.window)
	old := s.entries[identity]
	if len(old) == 0 {
		return old
	}

	kept := old[:0]
	for _, ts := range old {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(s.entries, identity)
		return nil
	}
	s.entries[identity] = kept
	return kept
}
