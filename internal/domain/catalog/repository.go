package catalog

import (
	"context"

	"github.com/coursebridge/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID loads a product with its allow-list and course links.
	// Returns shared.ErrNotFound when absent.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAdminOwned returns house-owned and administrator-owned products,
	// newest first.
	FindAdminOwned(ctx context.Context, filter shared.Filter) ([]Product, error)

	// CountAdminOwned counts the products FindAdminOwned pages over
	CountAdminOwned(ctx context.Context) (int64, error)

	// FindDuplicateSources maps each of sourceIDs that vendorID has already
	// duplicated to the vendor's copy.
	FindDuplicateSources(ctx context.Context, vendorID int64, sourceIDs []int64) (map[int64]int64, error)

	// Create inserts a new product together with its allow-list, course links
	// and pending domain events in a single transaction. On success the
	// product's ID is set and its events are cleared.
	Create(ctx context.Context, product *Product) error
}
