package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Notifier is the consumer side of the dispatcher. *Service satisfies it.
type Notifier interface {
	Notify(ctx context.Context, e Event) int
}

// Dispatcher decouples notification delivery from the request path that
// triggered it. Handlers enqueue and return; a single worker drains the
// channel. A mutation's HTTP response therefore never waits on delivery,
// and delivery may race it.
type Dispatcher struct {
	notifier Notifier
	events   chan Event
	log      *slog.Logger

	stopOnce sync.Once
	done     chan struct{}
}

func NewDispatcher(notifier Notifier, buffer int, log *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		notifier: notifier,
		events:   make(chan Event, buffer),
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start launches the worker. ctx cancellation stops it after the current
// delivery finishes.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		defer close(d.done)
		for {
			select {
			case <-ctx.Done():
				return
			case e, open := <-d.events:
				if !open {
					return
				}
				d.notifier.Notify(ctx, e)
			}
		}
	}()
}

// Enqueue hands an event to the worker without blocking the caller. When the
// buffer is full the event is dropped and counted as not sent; callers do
// not depend on delivery.
func (d *Dispatcher) Enqueue(e Event) bool {
	select {
	case d.events <- e:
		return true
	default:
		d.log.Warn("notification queue full, event dropped", "kind", string(e.Kind))
		return false
	}
}

// Close stops intake and waits for the worker to drain what was accepted.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() { close(d.events) })
	<-d.done
}
