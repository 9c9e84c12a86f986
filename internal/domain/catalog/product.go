package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusArchived  ProductStatus = "archived"
)

// HouseOwnerID is the owner of products that belong to the store itself
// rather than to any user account.
const HouseOwnerID int64 = 0

// Product is a storefront product, optionally linked to one or more courses.
// Admin-owned products can be duplicated by vendors subject to their
// availability mode.
type Product struct {
	shared.BaseAggregateRoot
	OwnerID          int64
	Title            string
	Slug             string
	Description      string
	SKU              string
	Price            decimal.Decimal
	Status           ProductStatus
	Attributes       json.RawMessage
	AvailabilityMode AvailabilityMode
	VendorAllowList  VendorSet
	CourseIDs        []int64
	// DuplicatedFrom records the source product for duplicates
	DuplicatedFrom *int64
}

// NewProduct creates a new draft product
func NewProduct(ownerID int64, title, sku string, price decimal.Decimal) (*Product, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if ownerID < 0 {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Title:             strings.TrimSpace(title),
		Slug:              slug.Make(title),
		SKU:               strings.TrimSpace(sku),
		Price:             price,
		Status:            ProductStatusDraft,
		Attributes:        json.RawMessage("{}"),
		VendorAllowList:   NewVendorSet(),
	}, nil
}

// IsHouseOwned reports whether the product has no owning account
func (p *Product) IsHouseOwned() bool {
	return p.OwnerID == HouseOwnerID
}

// HasCourse reports whether the product is linked to at least one course
func (p *Product) HasCourse() bool {
	return len(p.CourseIDs) > 0
}

// CanBeDuplicatedBy applies the availability rules to vendorID
func (p *Product) CanBeDuplicatedBy(vendorID int64) bool {
	return CanDuplicate(p.AvailabilityMode, p.VendorAllowList, vendorID, p.HasCourse())
}

// SetAvailability stores the duplication mode and the selective allow-list
func (p *Product) SetAvailability(mode AvailabilityMode, allowList ...int64) {
	p.AvailabilityMode = mode
	p.VendorAllowList = NewVendorSet(allowList...)
	p.UpdatedAt = time.Now()
}

// LinkCourses replaces the course associations. IDs are de-duplicated and
// sorted; non-positive IDs are rejected.
func (p *Product) LinkCourses(courseIDs []int64) error {
	normalized, err := normalizeCourseIDs(courseIDs)
	if err != nil {
		return err
	}
	p.CourseIDs = normalized
	p.UpdatedAt = time.Now()
	return nil
}

// SetAttributes sets catalog attributes as a JSON object
func (p *Product) SetAttributes(attributes json.RawMessage) error {
	if len(attributes) == 0 {
		p.Attributes = json.RawMessage("{}")
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(attributes, &obj); err != nil {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be a valid JSON object")
	}
	p.Attributes = attributes
	p.UpdatedAt = time.Now()
	return nil
}

// Publish makes the product visible in its storefront
func (p *Product) Publish() error {
	if p.Status == ProductStatusPublished {
		return shared.NewDomainError("ALREADY_PUBLISHED", "Product is already published")
	}
	p.Status = ProductStatusPublished
	p.UpdatedAt = time.Now()
	return nil
}

// DuplicateFor builds an unsaved copy of p owned by vendorID and linked to
// courseIDs. The copy starts as a draft that no other vendor can duplicate.
// The source is not modified.
func (p *Product) DuplicateFor(vendorID int64, courseIDs []int64) (*Product, error) {
	if vendorID <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Vendor ID must be positive")
	}
	courses, err := normalizeCourseIDs(courseIDs)
	if err != nil {
		return nil, err
	}

	attrs := make(json.RawMessage, len(p.Attributes))
	copy(attrs, p.Attributes)
	if len(attrs) == 0 {
		attrs = json.RawMessage("{}")
	}

	sourceID := p.ID
	dup := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           vendorID,
		Title:             p.Title,
		Slug:              slug.Make(fmt.Sprintf("%s %d", p.Title, vendorID)),
		Description:       p.Description,
		SKU:               vendorSKU(p.SKU, vendorID),
		Price:             p.Price,
		Status:            ProductStatusDraft,
		Attributes:        attrs,
		AvailabilityMode:  AvailabilityNo,
		VendorAllowList:   NewVendorSet(),
		CourseIDs:         courses,
		DuplicatedFrom:    &sourceID,
	}
	dup.AddDomainEvent(NewProductDuplicatedEvent(p.ID, dup))
	return dup, nil
}

func vendorSKU(sku string, vendorID int64) string {
	if sku == "" {
		return ""
	}
	return fmt.Sprintf("%s-V%d", sku, vendorID)
}

func normalizeCourseIDs(ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, shared.NewDomainError("INVALID_COURSE", fmt.Sprintf("Invalid course ID %d", id))
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}
