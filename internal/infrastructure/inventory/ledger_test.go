package inventory_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railtix/railtix/internal/infrastructure/inventory"
)

func TestLedger_Reserve(t *testing.T) {
	l := inventory.NewLedger(10)

	assert.True(t, l.Reserve(3))
	assert.Equal(t, 7, l.Available())

	assert.True(t, l.Reserve(7))
	assert.Equal(t, 0, l.Available())

	// Pool exhausted: every further attempt fails without mutation.
	assert.False(t, l.Reserve(1))
	assert.Equal(t, 0, l.Available())
}

func TestLedger_RejectsOversizedAndNonPositive(t *testing.T) {
	l := inventory.NewLedger(5)

	assert.False(t, l.Reserve(6))
	assert.Equal(t, 5, l.Available(), "failed reservation must not mutate")

	assert.False(t, l.Reserve(0))
	assert.False(t, l.Reserve(-2))
	assert.Equal(t, 5, l.Available())
}

func TestLedger_NoPartialReservations(t *testing.T) {
	l := inventory.NewLedger(4)

	require.True(t, l.Reserve(3))
	assert.False(t, l.Reserve(2), "only 1 left, a request for 2 must fail whole")
	assert.Equal(t, 1, l.Available())
}

func TestLedger_ConcurrentReserveNeverGoesNegative(t *testing.T) {
	const total = 500
	l := inventory.NewLedger(total)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if l.Reserve(3) {
					mu.Lock()
					granted += 3
					mu.Unlock()
				}
				avail := l.Available()
				assert.GreaterOrEqual(t, avail, 0)
				assert.LessOrEqual(t, avail, total)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, total-granted, l.Available())
	assert.LessOrEqual(t, granted, total)
}
