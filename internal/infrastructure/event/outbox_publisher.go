package event

import (
	"context"

	"github.com/coursebridge/backend/internal/domain/shared"
)

// OutboxPublisher writes domain events to the outbox instead of publishing
// them directly. When ctx carries a transaction the entries commit with it.
type OutboxPublisher struct {
	serializer *EventSerializer
	repo       shared.OutboxRepository
}

// NewOutboxPublisher creates a new OutboxPublisher
func NewOutboxPublisher(serializer *EventSerializer, repo shared.OutboxRepository) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer, repo: repo}
}

// SaveEvents serializes events into pending outbox entries
func (p *OutboxPublisher) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}
	return p.repo.Save(ctx, entries...)
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
