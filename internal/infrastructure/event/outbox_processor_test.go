package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type processorFixture struct {
	repo      *memoryOutbox
	bus       *InMemoryEventBus
	handler   *testHandler
	processor *OutboxProcessor
	publisher *OutboxPublisher
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	serializer := NewEventSerializer()
	serializer.Register("Test", &testEvent{})

	repo := newMemoryOutbox()
	bus := startedBus(t)
	handler := newTestHandler("Test")
	bus.Subscribe(handler)

	cfg := DefaultOutboxProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.CleanupEnabled = false

	return &processorFixture{
		repo:      repo,
		bus:       bus,
		handler:   handler,
		processor: NewOutboxProcessor(repo, bus, serializer, cfg, zap.NewNop()),
		publisher: NewOutboxPublisher(serializer, repo),
	}
}

func TestOutboxProcessor_DispatchesPending(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	evt := newTestEvent("Test")
	require.NoError(t, f.publisher.SaveEvents(ctx, evt))

	f.processor.ProcessBatch(ctx)

	require.Equal(t, 1, f.handler.count())
	assert.Equal(t, evt.EventID(), f.handler.handled[0].EventID())

	counts, err := f.repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
}

func TestOutboxProcessor_RetriesThenDeadLetters(t *testing.T) {
	f := newProcessorFixture(t)
	f.handler.err = errors.New("course platform unavailable")
	ctx := context.Background()

	require.NoError(t, f.publisher.SaveEvents(ctx, newTestEvent("Test")))
	entryID := f.repo.order[0]

	f.processor.ProcessBatch(ctx)
	entry := f.repo.get(entryID)
	assert.Equal(t, shared.OutboxStatusFailed, entry.Status)
	assert.Equal(t, 1, entry.RetryCount)
	require.NotNil(t, entry.NextRetryAt)

	for i := 1; i < shared.DefaultMaxRetries; i++ {
		past := time.Now().Add(-time.Second)
		entry.NextRetryAt = &past
		f.processor.ProcessBatch(ctx)
	}

	entry = f.repo.get(entryID)
	assert.True(t, entry.IsDead())
	assert.Equal(t, shared.DefaultMaxRetries, entry.RetryCount)
	assert.Equal(t, "course platform unavailable", entry.LastError)
	assert.Equal(t, shared.DefaultMaxRetries, f.handler.count())
}

func TestOutboxProcessor_UnknownEventTypeFails(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.Save(ctx, shared.NewOutboxEntry(newTestEvent("Unregistered"), []byte(`{}`))))
	f.processor.ProcessBatch(ctx)

	entry := f.repo.get(f.repo.order[0])
	assert.Equal(t, shared.OutboxStatusFailed, entry.Status)
	assert.Contains(t, entry.LastError, "unknown event type")
	assert.Equal(t, 0, f.handler.count())
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()

	require.NoError(t, f.publisher.SaveEvents(ctx, newTestEvent("Test")))
	require.NoError(t, f.processor.Start(ctx))

	assert.Eventually(t, func() bool { return f.handler.count() == 1 }, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, f.processor.Stop(stopCtx))
}

func TestProcessorConfigFrom(t *testing.T) {
	cfg := ProcessorConfigFrom(config.EventConfig{BatchSize: 25, CleanupEnabled: true})
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.True(t, cfg.CleanupEnabled)
	assert.Equal(t, 7*24*time.Hour, cfg.CleanupRetention)
}
