package daemon

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInFlightTryAcquireIsMutuallyExclusive(t *testing.T) {
	f := newInFlight()

	assert.True(t, f.tryAcquire("widgets"), "first acquire should succeed")
	assert.False(t, f.tryAcquire("widgets"), "second acquire for the same slug must fail while the first is held")

	f.release("widgets")
	assert.True(t, f.tryAcquire("widgets"), "acquire should succeed again after release")
}

func TestInFlightTracksSlugsIndependently(t *testing.T) {
	f := newInFlight()

	assert.True(t, f.tryAcquire("widgets"))
	assert.True(t, f.tryAcquire("gadgets"), "a different slug must not be blocked")

	f.release("widgets")
	assert.False(t, f.tryAcquire("gadgets"), "gadgets is still held")
}

func TestInFlightConcurrentAcquireOnlyOneWinner(t *testing.T) {
	f := newInFlight()

	const attempts = 50
	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.tryAcquire("widgets") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins, "exactly one concurrent acquirer should win")
}
