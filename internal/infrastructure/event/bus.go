package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/emlak/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BusConfig sizes the asynchronous dispatch of the bus
type BusConfig struct {
	Workers   int
	QueueSize int
}

// DefaultBusConfig returns the configuration used by the server
func DefaultBusConfig() BusConfig {
	return BusConfig{Workers: 4, QueueSize: 256}
}

type delivery struct {
	ctx   context.Context
	event shared.DomainEvent
}

// InMemoryEventBus fans domain events out to subscribed handlers.
//
// Before Start, Publish dispatches synchronously on the caller's goroutine.
// After Start, events are queued and handled by a fixed worker pool so
// request handlers never wait on mail delivery or broker round trips.
// Stop drains the queue before returning.
type InMemoryEventBus struct {
	config BusConfig
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler

	stateMu sync.RWMutex
	queue   chan delivery
	running bool
	wg      sync.WaitGroup
}

// NewInMemoryEventBus creates a bus with the default worker pool
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return NewInMemoryEventBusWithConfig(DefaultBusConfig(), logger)
}

// NewInMemoryEventBusWithConfig creates a bus with an explicit worker pool size
func NewInMemoryEventBusWithConfig(config BusConfig, logger *zap.Logger) *InMemoryEventBus {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize < 0 {
		config.QueueSize = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		config:   config,
		logger:   logger,
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Publish hands events to the matching handlers. Handler failures are
// logged and never returned to the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()

	for _, event := range events {
		if event == nil {
			continue
		}
		if !b.running {
			b.dispatch(ctx, event)
			continue
		}
		// The request context is usually cancelled long before a worker
		// picks the event up; keep its values but drop the deadline.
		d := delivery{ctx: context.WithoutCancel(ctx), event: event}
		select {
		case b.queue <- d:
		case <-ctx.Done():
			return fmt.Errorf("publish %s: %w", event.EventType(), ctx.Err())
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit types the handler's own
// EventTypes are used; an empty list subscribes to every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t, hs := range b.handlers {
		b.handlers[t] = without(hs, handler)
		if len(b.handlers[t]) == 0 {
			delete(b.handlers, t)
		}
	}
	b.wildcard = without(b.wildcard, handler)
}

func without(hs []shared.EventHandler, handler shared.EventHandler) []shared.EventHandler {
	out := hs[:0:0]
	for _, h := range hs {
		if h != handler {
			out = append(out, h)
		}
	}
	return out
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]shared.EventHandler, 0, len(b.handlers[eventType])+len(b.wildcard))
	out = append(out, b.handlers[eventType]...)
	out = append(out, b.wildcard...)
	return out
}

// Start launches the worker pool
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	if b.running {
		return nil
	}
	b.queue = make(chan delivery, b.config.QueueSize)
	for i := 0; i < b.config.Workers; i++ {
		b.wg.Add(1)
		go b.work(b.queue)
	}
	b.running = true
	b.logger.Info("event bus started", zap.Int("workers", b.config.Workers))
	return nil
}

// Stop closes the queue and waits for queued events to be handled or for
// ctx to expire, whichever comes first.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stateMu.Lock()
	if !b.running {
		b.stateMu.Unlock()
		return nil
	}
	b.running = false
	close(b.queue)
	b.stateMu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *InMemoryEventBus) work(queue <-chan delivery) {
	defer b.wg.Done()
	for d := range queue {
		b.dispatch(d.ctx, d.event)
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, event shared.DomainEvent) {
	for _, handler := range b.handlersFor(event.EventType()) {
		if err := b.dispatchToHandler(ctx, handler, event); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
