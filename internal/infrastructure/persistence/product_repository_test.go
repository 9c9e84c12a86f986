package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	db       *Database
	products *GormProductRepository
	users    *GormUserRepository
	outbox   *GormOutboxRepository
	admin    *identity.User
	vendor   *identity.User
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	db := setupTestDatabase(t)
	outbox := NewGormOutboxRepository(db.DB)
	f := &productFixture{
		db:       db,
		products: NewGormProductRepository(db.DB, &jsonEventSaver{outbox: outbox}, testAdminRole),
		users:    NewGormUserRepository(db.DB),
		outbox:   outbox,
	}
	f.admin = seedUser(t, f.users, "site-admin", identity.RoleAdministrator)
	f.vendor = seedUser(t, f.users, "vendor-one", identity.RoleVendor)
	return f
}

func TestGormProductRepository_FindByID(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	t.Run("loads courses and allow-list", func(t *testing.T) {
		p, err := catalog.NewProduct(catalog.HouseOwnerID, "Intro to Go", "GO-101", decimalPrice(t, "19.90"))
		require.NoError(t, err)
		require.NoError(t, p.LinkCourses([]int64{12, 7}))
		p.SetAvailability(catalog.AvailabilitySelective, f.vendor.ID, 99)
		require.NoError(t, f.products.Create(ctx, p))

		found, err := f.products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Intro to Go", found.Title)
		assert.Equal(t, "intro-to-go", found.Slug)
		assert.Equal(t, []int64{7, 12}, found.CourseIDs)
		assert.Equal(t, catalog.AvailabilitySelective, found.AvailabilityMode)
		assert.Equal(t, []int64{f.vendor.ID, 99}, found.VendorAllowList.IDs())
		assert.True(t, found.Price.Equal(decimalPrice(t, "19.90")))
		assert.True(t, found.CanBeDuplicatedBy(f.vendor.ID))
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := f.products.FindByID(ctx, 424242)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindAdminOwned(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	house := seedProduct(t, f.products, catalog.HouseOwnerID, "House", 1)
	adminOwned := seedProduct(t, f.products, f.admin.ID, "Admin")
	seedProduct(t, f.products, f.vendor.ID, "Vendor")

	count, err := f.products.CountAdminOwned(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	page, err := f.products.FindAdminOwned(ctx, shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, adminOwned.ID, page[0].ID)
	assert.Equal(t, house.ID, page[1].ID)
	assert.Equal(t, []int64{1}, page[1].CourseIDs)

	second, err := f.products.FindAdminOwned(ctx, shared.Filter{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, house.ID, second[0].ID)

	empty, err := f.products.FindAdminOwned(ctx, shared.Filter{Page: 3, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, empty)

	farPast, err := f.products.FindAdminOwned(ctx, shared.Filter{Page: 922337203685477581, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, farPast)
}

func TestGormProductRepository_CreateDuplicate(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	source := seedProduct(t, f.products, catalog.HouseOwnerID, "Intro to Go", 3, 5)
	dup, err := source.DuplicateFor(f.vendor.ID, source.CourseIDs)
	require.NoError(t, err)

	require.NoError(t, f.products.Create(ctx, dup))
	require.NotZero(t, dup.ID)
	assert.Empty(t, dup.GetDomainEvents())

	stored, err := f.products.FindByID(ctx, dup.ID)
	require.NoError(t, err)
	assert.Equal(t, f.vendor.ID, stored.OwnerID)
	assert.Equal(t, []int64{3, 5}, stored.CourseIDs)
	assert.Equal(t, catalog.AvailabilityNo, stored.AvailabilityMode)
	assert.Equal(t, catalog.ProductStatusDraft, stored.Status)
	require.NotNil(t, stored.DuplicatedFrom)
	assert.Equal(t, source.ID, *stored.DuplicatedFrom)

	pending, err := f.outbox.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, catalog.EventTypeProductDuplicated, pending[0].EventType)
	assert.Equal(t, dup.ID, pending[0].AggregateID)
	assert.Contains(t, string(pending[0].Payload), `"course_ids":[3,5]`)

	// source untouched
	again, err := f.products.FindByID(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.HouseOwnerID, again.OwnerID)
	assert.Nil(t, again.DuplicatedFrom)

	sources, err := f.products.FindDuplicateSources(ctx, f.vendor.ID, []int64{source.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{source.ID: dup.ID}, sources)
}

func TestGormProductRepository_CreateRollsBackOnOutboxFailure(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db.DB, failingEventSaver{err: errors.New("outbox down")}, testAdminRole)

	source := seedProduct(t, NewGormProductRepository(db.DB, nil, testAdminRole), catalog.HouseOwnerID, "Source", 1, 2)
	dup, err := source.DuplicateFor(7, source.CourseIDs)
	require.NoError(t, err)

	err = repo.Create(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, shared.CodePersistenceError, shared.CodeOf(err))
	assert.Zero(t, dup.ID)
	assert.Len(t, dup.GetDomainEvents(), 1)

	var products, links int64
	require.NoError(t, db.DB.Model(&models.ProductModel{}).Count(&products).Error)
	require.NoError(t, db.DB.Model(&models.ProductCourseModel{}).Count(&links).Error)
	assert.Equal(t, int64(1), products)
	assert.Equal(t, int64(2), links)
}

func TestGormProductRepository_FindDuplicateSources_Empty(t *testing.T) {
	f := newProductFixture(t)

	sources, err := f.products.FindDuplicateSources(context.Background(), f.vendor.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, sources)
}
