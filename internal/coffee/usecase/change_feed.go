package usecase

import (
	"context"
	"sync"

	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/shared/eventbus"
	"coffee-store/internal/shared/logger"

	"github.com/google/uuid"
)

// ChangeFeed fans change events out to live subscribers.
type ChangeFeed interface {
	// Subscribe registers a subscriber for one collection, or all when collection is "".
	// The returned channel is closed by Unsubscribe or Close.
	Subscribe(collection string, buffer int) (string, <-chan model.ChangeEvent)
	Unsubscribe(subscriberID string)
	SubscriberCount() int
	Close()
}

type feedSubscription struct {
	collection string
	events     chan model.ChangeEvent
}

type changeFeed struct {
	mu          sync.RWMutex
	subscribers map[string]*feedSubscription
	closed      bool
	log         logger.Logger
}

// NewChangeFeed creates a feed and subscribes it to the document events of bus.
func NewChangeFeed(bus eventbus.EventBusInterface, log logger.Logger) ChangeFeed {
	if log == nil {
		log = logger.NewNopLogger()
	}
	feed := &changeFeed{
		subscribers: make(map[string]*feedSubscription),
		log:         log.WithComponent("change-feed"),
	}
	for _, eventType := range eventbus.DocumentEventTypes {
		bus.Subscribe(eventType, feed.handle)
	}
	return feed
}

func (f *changeFeed) Subscribe(collection string, buffer int) (string, <-chan model.ChangeEvent) {
	if buffer <= 0 {
		buffer = 1
	}
	id := uuid.NewString()
	sub := &feedSubscription{
		collection: collection,
		events:     make(chan model.ChangeEvent, buffer),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(sub.events)
		return id, sub.events
	}
	f.subscribers[id] = sub
	f.log.Infof("Subscriber %s listening on %q", id, collection)
	return id, sub.events
}

func (f *changeFeed) Unsubscribe(subscriberID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subscribers[subscriberID]
	if !ok {
		return
	}
	delete(f.subscribers, subscriberID)
	close(sub.events)
	f.log.Infof("Subscriber %s removed", subscriberID)
}

func (f *changeFeed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// Close drops every subscriber; later subscriptions get a closed channel.
func (f *changeFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, sub := range f.subscribers {
		close(sub.events)
		delete(f.subscribers, id)
	}
	f.closed = true
}

func (f *changeFeed) handle(_ context.Context, event eventbus.Event) error {
	change, ok := changeEventFrom(event)
	if !ok {
		return nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	for id, sub := range f.subscribers {
		if sub.collection != "" && sub.collection != change.Collection {
			continue
		}
		// a full buffer means a slow reader; the event is dropped for it
		select {
		case sub.events <- change:
		default:
			f.log.Warnf("Dropping %s event for slow subscriber %s", change.Type, id)
		}
	}
	return nil
}
