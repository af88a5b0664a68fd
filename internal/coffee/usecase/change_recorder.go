package usecase

import (
	"context"

	"coffee-store/internal/coffee/domain/repository"
	"coffee-store/internal/shared/eventbus"
	"coffee-store/internal/shared/logger"
)

// RegisterChangeLog appends every document event published on bus to changeLog.
func RegisterChangeLog(bus eventbus.EventBusInterface, changeLog repository.ChangeLog, log logger.Logger) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.WithComponent("change-recorder")

	record := func(ctx context.Context, event eventbus.Event) error {
		change, ok := changeEventFrom(event)
		if !ok {
			log.Warnf("Ignoring %s event without change payload", event.Type())
			return nil
		}
		return changeLog.Append(ctx, change)
	}
	for _, eventType := range eventbus.DocumentEventTypes {
		bus.Subscribe(eventType, record)
	}
}
