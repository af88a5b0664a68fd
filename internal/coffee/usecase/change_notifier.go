package usecase

import (
	"context"

	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/shared/eventbus"
)

const eventSource = "coffee-store"

// ChangePublisher announces change events. Publishing never fails the caller.
type ChangePublisher interface {
	PublishChange(ctx context.Context, event model.ChangeEvent)
}

// BusChangePublisher publishes change events on the event bus, fire-and-forget.
type BusChangePublisher struct {
	bus eventbus.EventBusInterface
}

// NewBusChangePublisher creates a publisher on bus
func NewBusChangePublisher(bus eventbus.EventBusInterface) *BusChangePublisher {
	return &BusChangePublisher{bus: bus}
}

// PublishChange implements ChangePublisher
func (p *BusChangePublisher) PublishChange(ctx context.Context, event model.ChangeEvent) {
	p.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(BusEventType(event.Type), event, eventSource))
}

// BusEventType maps a change type to its event bus type
func BusEventType(t model.ChangeType) string {
	switch t {
	case model.ChangeTypeCreated:
		return eventbus.EventTypeDocumentCreated
	case model.ChangeTypeDeleted:
		return eventbus.EventTypeDocumentDeleted
	default:
		return eventbus.EventTypeDocumentUpdated
	}
}

// changeEventFrom extracts the ChangeEvent carried by a bus event
func changeEventFrom(event eventbus.Event) (model.ChangeEvent, bool) {
	switch data := event.Data().(type) {
	case model.ChangeEvent:
		return data, true
	case *model.ChangeEvent:
		if data == nil {
			return model.ChangeEvent{}, false
		}
		return *data, true
	default:
		return model.ChangeEvent{}, false
	}
}

type noopPublisher struct{}

func (noopPublisher) PublishChange(context.Context, model.ChangeEvent) {}
