// Package fraud implements the device/IP suspicion heuristic.
//
// Two rules apply, OR'd: a user whose combined set of observed device IDs and
// IP addresses exceeds a threshold is suspicious, and an IP address already
// observed under a different user flags account sharing. Device IDs and IP
// addresses go into a single conflated set on purpose, so both kinds of churn
// count against one threshold; see DESIGN.md.
package fraud

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/railtix/railtix/pkg/constants"
)

// Tracker records device/IP observations per user and answers suspicion
// queries. The cross-user rule is served by a value index (observed string to
// user set) instead of scanning every user's set, keeping the check O(1) while
// preserving identical flagging semantics.
type Tracker struct {
	mu        sync.Mutex
	threshold int
	users     *gocache.Cache                 // userID -> userRecord
	seenBy    map[string]map[string]struct{} // observed value -> user IDs
}

type userRecord struct {
	values map[string]struct{}
}

// NewTracker creates a tracker with the given set-size threshold. An entryTTL
// of zero means observations never expire, the default. A positive
// TTL ages out idle user records, with the value index kept consistent through
// the eviction hook.
func NewTracker(threshold int, entryTTL time.Duration) *Tracker {
	if threshold <= 0 {
		threshold = constants.DeviceIPThreshold
	}

	ttl := gocache.NoExpiration
	cleanup := time.Duration(0)
	if entryTTL > 0 {
		ttl = entryTTL
		cleanup = entryTTL
	}

	t := &Tracker{
		threshold: threshold,
		users:     gocache.New(ttl, cleanup),
		seenBy:    make(map[string]map[string]struct{}),
	}
	t.users.OnEvicted(t.onEvicted)
	return t
}

// IsSuspicious evaluates both rules for the given attempt without recording
// anything. The per-user rule looks only at previously recorded observations.
func (t *Tracker) IsSuspicious(userID, deviceID, ipAddress string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Rule A: oversized device/IP set.
	if rec, ok := t.record(userID); ok && len(rec.values) > t.threshold {
		return true
	}

	// Rule B: the IP is on record for a different user.
	for other := range t.seenBy[ipAddress] {
		if other != userID {
			return true
		}
	}

	return false
}

// RecordObservation stores the device ID and IP address under the user and
// updates the value index. Growth is monotonic unless a TTL is configured.
func (t *Tracker) RecordObservation(userID, deviceID, ipAddress string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.record(userID)
	if !ok {
		rec = &userRecord{values: make(map[string]struct{})}
	}

	for _, v := range []string{deviceID, ipAddress} {
		rec.values[v] = struct{}{}
		users := t.seenBy[v]
		if users == nil {
			users = make(map[string]struct{})
			t.seenBy[v] = users
		}
		users[userID] = struct{}{}
	}

	// Set also refreshes the TTL when one is configured.
	t.users.SetDefault(userID, rec)
}

// ObservationCount reports the size of the user's device/IP set.
func (t *Tracker) ObservationCount(userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.record(userID); ok {
		return len(rec.values)
	}
	return 0
}

// record fetches the user's record. Caller holds the lock.
func (t *Tracker) record(userID string) (*userRecord, bool) {
	v, ok := t.users.Get(userID)
	if !ok {
		return nil, false
	}
	return v.(*userRecord), true
}

// onEvicted removes an expired user's values from the index. Runs on the
// cache janitor goroutine, so it takes the lock itself.
func (t *Tracker) onEvicted(userID string, v interface{}) {
	rec, ok := v.(*userRecord)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for value := range rec.values {
		if users := t.seenBy[value]; users != nil {
			delete(users, userID)
			if len(users) == 0 {
				delete(t.seenBy, value)
			}
		}
	}
}
