package enrollment

import (
	"context"
	"fmt"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CourseGateway links storefront products to courses on the course platform
type CourseGateway interface {
	LinkProduct(ctx context.Context, productID int64, courseIDs []int64) error
}

// SyncHandler handles ProductDuplicatedEvent and tells the course platform
// that the vendor copy grants access to the same courses as its source.
type SyncHandler struct {
	gateway CourseGateway
	logger  *zap.Logger
}

// NewSyncHandler creates a new enrollment sync handler
func NewSyncHandler(gateway CourseGateway, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SyncHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductDuplicated}
}

// Handle processes a ProductDuplicatedEvent. Gateway failures are returned so
// the outbox retries the delivery.
func (h *SyncHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	dupEvent, ok := event.(*catalog.ProductDuplicatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeProductDuplicated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductDuplicated, event.EventType())
	}

	if dupEvent.ProductID <= 0 {
		return fmt.Errorf("product duplicated event %s has no product id", event.EventID())
	}

	if len(dupEvent.CourseIDs) == 0 {
		h.logger.Debug("duplicate has no courses, nothing to link",
			zap.Int64("product_id", dupEvent.ProductID),
		)
		return nil
	}

	if err := h.gateway.LinkProduct(ctx, dupEvent.ProductID, dupEvent.CourseIDs); err != nil {
		h.logger.Warn("failed to link duplicate to courses",
			zap.Int64("product_id", dupEvent.ProductID),
			zap.Int64("source_product_id", dupEvent.SourceProductID),
			zap.Error(err),
		)
		return fmt.Errorf("link product %d to courses: %w", dupEvent.ProductID, err)
	}

	h.logger.Info("duplicate linked to courses",
		zap.Int64("product_id", dupEvent.ProductID),
		zap.Int64("vendor_id", dupEvent.VendorID),
		zap.Int64s("course_ids", dupEvent.CourseIDs),
	)
	return nil
}

var _ shared.EventHandler = (*SyncHandler)(nil)
