package services

import (
	"sync"
	"time"
)

// Event identifies a category of data change fanned out to subscribers.
type Event string

const (
	EventResidentsChanged Event = "residents_changed"
	EventRequestsChanged  Event = "requests_changed"
	EventWorkersChanged   Event = "workers_changed"
)

type InterfaceEventService interface {
	Publish(event Event)
	Subscribe(event Event, handler func())
	SubscribeDebounced(event Event, delay time.Duration, handler func())
	Close()
}

// EventService is an in-process bus. Events carry no payload; a
// subscriber refetches whatever it displays when notified.
type EventService struct {
	mu        sync.Mutex
	handlers  map[Event][]func()
	debounced map[Event][]*debouncedHandler
	closed    bool
}

// debouncedHandler coalesces bursts of the same event into a single
// trailing callback after the delay elapses. If the event fires again
// while the callback is running, the pending flag schedules one more run.
type debouncedHandler struct {
	mu      sync.Mutex
	delay   time.Duration
	handler func()
	timer   *time.Timer
	pending bool
}

func NewEventService() InterfaceEventService {
	return &EventService{
		handlers:  make(map[Event][]func()),
		debounced: make(map[Event][]*debouncedHandler),
	}
}

func (s *EventService) Subscribe(event Event, handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = append(s.handlers[event], handler)
}

func (s *EventService) SubscribeDebounced(event Event, delay time.Duration, handler func()) {
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounced[event] = append(s.debounced[event], &debouncedHandler{
		delay:   delay,
		handler: handler,
	})
}

func (s *EventService) Publish(event Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	handlers := s.handlers[event]
	debounced := s.debounced[event]
	s.mu.Unlock()

	for _, h := range handlers {
		h()
	}
	for _, d := range debounced {
		d.trigger()
	}
}

func (d *debouncedHandler) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncedHandler) fire() {
	d.mu.Lock()
	d.pending = false
	d.mu.Unlock()

	d.handler()

	// An event published while the handler was running restarts the timer.
	d.mu.Lock()
	rearm := d.pending
	d.mu.Unlock()
	if rearm {
		d.mu.Lock()
		if d.timer != nil {
			d.timer.Stop()
		}
		d.timer = time.AfterFunc(d.delay, d.fire)
		d.mu.Unlock()
	}
}

func (s *EventService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, list := range s.debounced {
		for _, d := range list {
			d.mu.Lock()
			if d.timer != nil {
				d.timer.Stop()
			}
			d.mu.Unlock()
		}
	}
}
