package persistence

import (
	"context"
	"errors"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// adminOwnedClause selects house products and products owned by any user
// holding the administrator role.
const adminOwnedClause = "owner_id = ? OR owner_id IN (SELECT user_id FROM user_roles WHERE role = ?)"

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db        *gorm.DB
	events    shared.OutboxEventSaver
	adminRole string
}

// NewGormProductRepository creates a new GormProductRepository. Domain events
// raised by created products are handed to events inside the insert
// transaction; events may be nil when nothing consumes them.
func NewGormProductRepository(db *gorm.DB, events shared.OutboxEventSaver, adminRole string) *GormProductRepository {
	return &GormProductRepository{db: db, events: events, adminRole: adminRole}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	err := conn(ctx, r.db).
		Preload("Courses").
		Preload("AllowList").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.WrapDomainError(shared.CodePersistenceError, "Failed to load product", err)
	}
	return model.ToDomain(), nil
}

// FindAdminOwned returns one page of admin-owned products, highest ID first
func (r *GormProductRepository) FindAdminOwned(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	err := conn(ctx, r.db).
		Preload("Courses").
		Preload("AllowList").
		Where(adminOwnedClause, catalog.HouseOwnerID, r.adminRole).
		Order("id DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodePersistenceError, "Failed to list products", err)
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// CountAdminOwned counts admin-owned products
func (r *GormProductRepository) CountAdminOwned(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&models.ProductModel{}).
		Where(adminOwnedClause, catalog.HouseOwnerID, r.adminRole).
		Count(&count).Error
	if err != nil {
		return 0, shared.WrapDomainError(shared.CodePersistenceError, "Failed to count products", err)
	}
	return count, nil
}

// FindDuplicateSources maps each source ID the vendor has already copied to
// the vendor's oldest copy of it.
func (r *GormProductRepository) FindDuplicateSources(ctx context.Context, vendorID int64, sourceIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64)
	if len(sourceIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ID             int64
		DuplicatedFrom int64
	}
	err := conn(ctx, r.db).
		Model(&models.ProductModel{}).
		Select("id, duplicated_from").
		Where("owner_id = ? AND duplicated_from IN ?", vendorID, sourceIDs).
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodePersistenceError, "Failed to look up duplicates", err)
	}

	for _, row := range rows {
		if _, seen := result[row.DuplicatedFrom]; !seen {
			result[row.DuplicatedFrom] = row.ID
		}
	}
	return result, nil
}

// Create inserts the product with its course links, allow-list and pending
// events in one transaction
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	events := product.GetDomainEvents()

	err := RunInTx(ctx, r.db, func(ctx context.Context) error {
		if err := conn(ctx, r.db).Create(model).Error; err != nil {
			return err
		}
		for _, event := range events {
			if assigner, ok := event.(catalog.ProductIDAssigner); ok {
				assigner.AssignProductID(model.ID)
			}
		}
		if r.events == nil || len(events) == 0 {
			return nil
		}
		return r.events.SaveEvents(ctx, events...)
	})
	if err != nil {
		return shared.WrapDomainError(shared.CodePersistenceError, "Failed to create product", err)
	}

	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	product.ClearDomainEvents()
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
