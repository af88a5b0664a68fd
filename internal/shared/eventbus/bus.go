package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"coffee-store/internal/shared/logger"
)

// Event represents a generic event
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler defines the event handler function type
type Handler func(ctx context.Context, event Event) error

// EventBusInterface defines the contract for event bus implementations
type EventBusInterface interface {
	Subscribe(eventType string, handler Handler)
	Publish(ctx context.Context, event Event) error
	PublishAndForget(ctx context.Context, event Event)
	Unsubscribe(eventType string)
	GetSubscriberCount(eventType string) int
	GetEventTypes() []string
	Close()
}

// EventBus is an in-memory, type-keyed event bus
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   logger.Logger
	config   BusConfig

	queueMu sync.RWMutex
	queue   chan queuedEvent
	stopped bool
	done    chan struct{}
}

type queuedEvent struct {
	ctx   context.Context
	event Event
}

// BusConfig holds configuration for the event bus
type BusConfig struct {
	// AsyncProcessing runs the handlers of one event concurrently.
	AsyncProcessing bool
	// QueueSize bounds the events PublishAndForget holds before it blocks.
	QueueSize int
}

// DefaultBusConfig returns default configuration
func DefaultBusConfig() BusConfig {
	return BusConfig{AsyncProcessing: false, QueueSize: 1024}
}

// NewEventBus creates a new event bus instance
func NewEventBus(log logger.Logger) *EventBus {
	return NewEventBusWithConfig(log, DefaultBusConfig())
}

// NewEventBusWithConfig creates a new event bus with custom configuration
func NewEventBusWithConfig(log logger.Logger, config BusConfig) *EventBus {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultBusConfig().QueueSize
	}
	eb := &EventBus{
		handlers: make(map[string][]Handler),
		logger:   log,
		config:   config,
		queue:    make(chan queuedEvent, config.QueueSize),
		done:     make(chan struct{}),
	}
	go eb.dispatch()
	return eb
}

// Subscribe adds a handler for a specific event type
func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debugf("Subscribed handler for event type: %s", eventType)
}

// Publish sends an event to all registered handlers. Every handler runs even when an
// earlier one fails; the failures are joined.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	handlers := append([]Handler(nil), eb.handlers[event.Type()]...)
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		eb.logger.Debugf("No handlers found for event type: %s", event.Type())
		return nil
	}

	eb.logger.Debugf("Publishing event type: %s to %d handlers", event.Type(), len(handlers))

	if eb.config.AsyncProcessing {
		return eb.publishAsync(ctx, event, handlers)
	}
	return eb.publishSync(ctx, event, handlers)
}

func (eb *EventBus) publishSync(ctx context.Context, event Event, handlers []Handler) error {
	var errs []error
	for i, handler := range handlers {
		if err := eb.executeHandler(ctx, event, handler, i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (eb *EventBus) publishAsync(ctx context.Context, event Event, handlers []Handler) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(handlers))

	for i, handler := range handlers {
		wg.Add(1)
		go func(h Handler, idx int) {
			defer wg.Done()
			if err := eb.executeHandler(ctx, event, h, idx); err != nil {
				errCh <- err
			}
		}(handler, i)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (eb *EventBus) executeHandler(ctx context.Context, event Event, handler Handler, handlerIndex int) error {
	if err := handler(ctx, event); err != nil {
		eb.logger.Errorf("Handler %d failed for event %s: %v", handlerIndex, event.Type(), err)
		return err
	}
	return nil
}

// PublishAndForget queues an event without waiting for its handlers. Queued events are
// delivered one at a time in the order they were queued. The request context is
// detached so handlers outlive the request that caused the event.
func (eb *EventBus) PublishAndForget(ctx context.Context, event Event) {
	eb.queueMu.RLock()
	defer eb.queueMu.RUnlock()

	if eb.stopped {
		eb.logger.Warnf("Event bus closed, dropping event %s", event.Type())
		return
	}
	eb.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}
}

func (eb *EventBus) dispatch() {
	defer close(eb.done)
	for q := range eb.queue {
		if err := eb.Publish(q.ctx, q.event); err != nil {
			eb.logger.Errorf("Failed to publish event %s: %v", q.event.Type(), err)
		}
	}
}

// Close stops accepting queued events and waits until the queued ones are delivered.
func (eb *EventBus) Close() {
	eb.queueMu.Lock()
	if !eb.stopped {
		eb.stopped = true
		close(eb.queue)
	}
	eb.queueMu.Unlock()
	<-eb.done
}

// Unsubscribe removes all handlers for a specific event type
func (eb *EventBus) Unsubscribe(eventType string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	delete(eb.handlers, eventType)
	eb.logger.Debugf("Unsubscribed all handlers for event type: %s", eventType)
}

// GetSubscriberCount returns the number of handlers for an event type
func (eb *EventBus) GetSubscriberCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

// GetEventTypes returns all registered event types
func (eb *EventBus) GetEventTypes() []string {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	types := make([]string, 0, len(eb.handlers))
	for eventType := range eb.handlers {
		types = append(types, eventType)
	}
	return types
}

// BasicEvent implements the Event interface
type BasicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewBasicEvent creates a new basic event
func NewBasicEvent(eventType string, data interface{}) Event {
	return NewBasicEventWithSource(eventType, data, "unknown")
}

// NewBasicEventWithSource creates a new basic event with source
func NewBasicEventWithSource(eventType string, data interface{}, source string) Event {
	return &BasicEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now(),
		source:    source,
	}
}

func (e *BasicEvent) Type() string {
	return e.eventType
}

func (e *BasicEvent) Data() interface{} {
	return e.data
}

func (e *BasicEvent) Timestamp() time.Time {
	return e.timestamp
}

func (e *BasicEvent) Source() string {
	return e.source
}

// Event types published after successful document mutations
const (
	EventTypeDocumentCreated = "document.created"
	EventTypeDocumentUpdated = "document.updated"
	EventTypeDocumentDeleted = "document.deleted"
)

// DocumentEventTypes lists every document mutation event type.
var DocumentEventTypes = []string{
	EventTypeDocumentCreated,
	EventTypeDocumentUpdated,
	EventTypeDocumentDeleted,
}
