package event

import "github.com/coursebridge/backend/internal/domain/catalog"

// RegisterAllEvents registers every event type that is written to the outbox
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(catalog.EventTypeProductDuplicated, &catalog.ProductDuplicatedEvent{})
}
