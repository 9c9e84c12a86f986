package duplication

import (
	"context"
	"errors"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/shared"
)

// Executor copies a product into a vendor's catalog
type Executor struct {
	products catalog.ProductRepository
}

func NewExecutor(products catalog.ProductRepository) *Executor {
	return &Executor{products: products}
}

// Duplicate creates a draft copy of sourceID owned by vendorID and linked to
// exactly courseIDs, and returns the new product's ID. The copy, its course
// links and its ProductDuplicated outbox entry are written atomically.
// Errors are shared.ErrNotFound or a PERSISTENCE_ERROR.
func (e *Executor) Duplicate(ctx context.Context, sourceID, vendorID int64, courseIDs []int64) (int64, error) {
	source, err := e.products.FindByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, shared.ErrNotFound
		}
		return 0, asPersistenceError("failed to load source product", err)
	}

	dup, err := source.DuplicateFor(vendorID, courseIDs)
	if err != nil {
		return 0, asPersistenceError("failed to build duplicate", err)
	}

	if err := e.products.Create(ctx, dup); err != nil {
		return 0, asPersistenceError("failed to save duplicate", err)
	}
	return dup.ID, nil
}

func asPersistenceError(msg string, err error) error {
	if shared.CodeOf(err) == shared.CodePersistenceError {
		return err
	}
	return shared.WrapDomainError(shared.CodePersistenceError, msg, err)
}
