package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrBusClosed is returned by Next once the bus is closed and drained.
var ErrBusClosed = errors.New("event bus closed")

// Bus is the inbound event channel. Emit never blocks; events are handed to
// the single consumer in emission order, one at a time.
type Bus struct {
	mu     sync.Mutex
	queue  []Event
	ready  chan struct{}
	closed bool
}

func NewBus() *Bus {
	return &Bus{ready: make(chan struct{}, 1)}
}

// Emit appends ev to the queue. Events emitted after Close are dropped.
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, ev)
	b.mu.Unlock()
	b.signal()
}

// Next blocks until an event is available, the bus is closed and drained, or
// ctx is done.
func (b *Bus) Next(ctx context.Context) (Event, error) {
	for {
		b.mu.Lock()
		if len(b.queue) > 0 {
			ev := b.queue[0]
			b.queue[0] = Event{}
			b.queue = b.queue[1:]
			more := len(b.queue) > 0
			b.mu.Unlock()
			if more {
				b.signal()
			}
			return ev, nil
		}
		if b.closed {
			b.mu.Unlock()
			return Event{}, ErrBusClosed
		}
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-b.ready:
		}
	}
}

// Len returns the number of queued events.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Close stops accepting events. Already queued events are still delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.signal()
}

func (b *Bus) signal() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Router maps event names to handlers. Each name may be subscribed once for
// the lifetime of the router.
type Router[R any] struct {
	handlers map[string]func(Event) R
}

func NewRouter[R any]() *Router[R] {
	return &Router[R]{handlers: make(map[string]func(Event) R)}
}

// On subscribes h to name.
func (r *Router[R]) On(name string, h func(Event) R) error {
	if h == nil {
		return fmt.Errorf("nil handler for %s", name)
	}
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("event %s already has a subscriber", name)
	}
	r.handlers[name] = h
	return nil
}

// Dispatch runs the handler for ev. ok is false when nothing is subscribed.
func (r *Router[R]) Dispatch(ev Event) (res R, ok bool) {
	h, ok := r.handlers[ev.Name]
	if !ok {
		return res, false
	}
	return h(ev), true
}
