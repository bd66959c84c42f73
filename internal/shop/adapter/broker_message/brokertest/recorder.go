// Package brokertest provides an in-memory publisher for tests.
package brokertest

import (
	"context"
	"sync"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/xpkg/events"
)

// Recorder keeps published events in memory. Set Err to make every publish fail.
type Recorder struct {
	mu     sync.Mutex
	events []events.OrderEvent
	Err    error
}

var _ core.IPublisher = (*Recorder)(nil)

func (r *Recorder) PublishOrderEvent(_ context.Context, event events.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Published() []events.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.OrderEvent(nil), r.events...)
}

func (r *Recorder) Close() error { return nil }
