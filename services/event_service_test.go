package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeFiresPerPublish(t *testing.T) {
	bus := NewEventService()
	defer bus.Close()

	var calls int32
	bus.Subscribe(EventResidentsChanged, func() {
		atomic.AddInt32(&calls, 1)
	})

	bus.Publish(EventResidentsChanged)
	bus.Publish(EventResidentsChanged)
	bus.Publish(EventRequestsChanged) // different event, no handler

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSubscribeDebouncedCoalescesBurst(t *testing.T) {
	bus := NewEventService()
	defer bus.Close()

	var calls int32
	bus.SubscribeDebounced(EventRequestsChanged, 30*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})

	for i := 0; i < 10; i++ {
		bus.Publish(EventRequestsChanged)
	}

	// inside the window nothing has fired yet
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 5*time.Millisecond)

	// stays at one once the burst settles
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSubscribeDebouncedFiresAgainAfterQuietPeriod(t *testing.T) {
	bus := NewEventService()
	defer bus.Close()

	var calls int32
	bus.SubscribeDebounced(EventWorkersChanged, 20*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})

	bus.Publish(EventWorkersChanged)
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 5*time.Millisecond)

	bus.Publish(EventWorkersChanged)
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestCloseStopsPendingDebounce(t *testing.T) {
	bus := NewEventService()

	var calls int32
	bus.SubscribeDebounced(EventResidentsChanged, 20*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})

	bus.Publish(EventResidentsChanged)
	bus.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
