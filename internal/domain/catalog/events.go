package catalog

import "github.com/coursebridge/backend/internal/domain/shared"

const AggregateTypeProduct = "Product"

const EventTypeProductDuplicated = "ProductDuplicated"

// ProductDuplicatedEvent is raised when a vendor copy of an admin product is
// created. Enrollment sync listens for it to link the copy to its courses.
type ProductDuplicatedEvent struct {
	shared.BaseDomainEvent
	SourceProductID int64   `json:"source_product_id"`
	ProductID       int64   `json:"product_id"`
	VendorID        int64   `json:"vendor_id"`
	CourseIDs       []int64 `json:"course_ids"`
}

// NewProductDuplicatedEvent creates the event for dup. ProductID is filled in
// by the repository once the copy has an ID (see AssignProductID).
func NewProductDuplicatedEvent(sourceID int64, dup *Product) *ProductDuplicatedEvent {
	courses := make([]int64, len(dup.CourseIDs))
	copy(courses, dup.CourseIDs)
	return &ProductDuplicatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDuplicated, AggregateTypeProduct, dup.ID),
		SourceProductID: sourceID,
		ProductID:       dup.ID,
		VendorID:        dup.OwnerID,
		CourseIDs:       courses,
	}
}

// AssignProductID sets the new product's ID on the event after insert
func (e *ProductDuplicatedEvent) AssignProductID(id int64) {
	e.ProductID = id
	e.SetAggregateID(id)
}

// ProductIDAssigner is implemented by events that need the aggregate ID
// filled in after the aggregate is first persisted.
type ProductIDAssigner interface {
	AssignProductID(id int64)
}
