package duplication

import (
	"context"
	"errors"
	"testing"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/config"
	"github.com/coursebridge/backend/internal/infrastructure/event"
	"github.com/coursebridge/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type executorFixture struct {
	db       *persistence.Database
	products *persistence.GormProductRepository
	outbox   *persistence.GormOutboxRepository
}

func newExecutorFixture(t *testing.T, saver shared.OutboxEventSaver) *executorFixture {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	outbox := persistence.NewGormOutboxRepository(db.DB)
	if saver == nil {
		serializer := event.NewEventSerializer()
		event.RegisterAllEvents(serializer)
		saver = event.NewOutboxPublisher(serializer, outbox)
	}
	return &executorFixture{
		db:       db,
		products: persistence.NewGormProductRepository(db.DB, saver, "administrator"),
		outbox:   outbox,
	}
}

func (f *executorFixture) seedHouseProduct(t *testing.T, courses ...int64) *catalog.Product {
	t.Helper()
	// seeding must not go through a failing saver
	seeder := persistence.NewGormProductRepository(f.db.DB, noopSaver{}, "administrator")
	p, err := catalog.NewProduct(catalog.HouseOwnerID, "Intro to Go", "GO-101", decimal.NewFromInt(99))
	require.NoError(t, err)
	require.NoError(t, p.LinkCourses(courses))
	p.SetAvailability(catalog.AvailabilityYes)
	require.NoError(t, seeder.Create(context.Background(), p))
	return p
}

type noopSaver struct{}

func (noopSaver) SaveEvents(context.Context, ...shared.DomainEvent) error { return nil }

type failingSaver struct{}

func (failingSaver) SaveEvents(context.Context, ...shared.DomainEvent) error {
	return errors.New("outbox unavailable")
}

func TestExecutor_Duplicate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates copy with courses and outbox entry", func(t *testing.T) {
		f := newExecutorFixture(t, nil)
		source := f.seedHouseProduct(t, 5, 3)

		newID, err := NewExecutor(f.products).Duplicate(ctx, source.ID, 42, []int64{5, 3})
		require.NoError(t, err)
		assert.NotEqual(t, source.ID, newID)

		dup, err := f.products.FindByID(ctx, newID)
		require.NoError(t, err)
		assert.Equal(t, int64(42), dup.OwnerID)
		assert.Equal(t, []int64{3, 5}, dup.CourseIDs)
		assert.Equal(t, catalog.AvailabilityNo, dup.AvailabilityMode)
		require.NotNil(t, dup.DuplicatedFrom)
		assert.Equal(t, source.ID, *dup.DuplicatedFrom)

		pending, err := f.outbox.FindPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, catalog.EventTypeProductDuplicated, pending[0].EventType)
		assert.Equal(t, newID, pending[0].AggregateID)

		reloaded, err := f.products.FindByID(ctx, source.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.HouseOwnerID, reloaded.OwnerID)
		assert.Nil(t, reloaded.DuplicatedFrom)
	})

	t.Run("missing source is not found", func(t *testing.T) {
		f := newExecutorFixture(t, nil)

		_, err := NewExecutor(f.products).Duplicate(ctx, 999, 42, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("outbox failure rolls back the copy", func(t *testing.T) {
		f := newExecutorFixture(t, failingSaver{})
		source := f.seedHouseProduct(t, 3)

		_, err := NewExecutor(f.products).Duplicate(ctx, source.ID, 42, []int64{3})
		require.Error(t, err)
		assert.Equal(t, shared.CodePersistenceError, shared.CodeOf(err))

		count, err := f.products.CountAdminOwned(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		var total int64
		require.NoError(t, f.db.DB.Table("products").Count(&total).Error)
		assert.Equal(t, int64(1), total)
	})

	t.Run("invalid vendor is a persistence error", func(t *testing.T) {
		f := newExecutorFixture(t, nil)
		source := f.seedHouseProduct(t, 3)

		_, err := NewExecutor(f.products).Duplicate(ctx, source.ID, 0, []int64{3})
		assert.Equal(t, shared.CodePersistenceError, shared.CodeOf(err))
	})
}
