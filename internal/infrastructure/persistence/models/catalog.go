package models

import (
	"encoding/json"
	"slices"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	BaseModel
	OwnerID          int64           `gorm:"not null;index"`
	Title            string          `gorm:"type:varchar(200);not null"`
	Slug             string          `gorm:"type:varchar(255);not null;index"`
	Description      string          `gorm:"type:text"`
	SKU              string          `gorm:"column:sku;type:varchar(64)"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status           string          `gorm:"type:varchar(20);not null"`
	Attributes       datatypes.JSON
	AvailabilityMode string                    `gorm:"type:varchar(20);not null"`
	DuplicatedFrom   *int64                    `gorm:"index"`
	Courses          []ProductCourseModel      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AllowList        []ProductVendorAllowModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ProductCourseModel links a product to a course on the course platform
type ProductCourseModel struct {
	ProductID int64 `gorm:"primaryKey;autoIncrement:false"`
	CourseID  int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName returns the table name for GORM
func (ProductCourseModel) TableName() string {
	return "product_courses"
}

// ProductVendorAllowModel is one entry of a product's selective allow-list
type ProductVendorAllowModel struct {
	ProductID int64 `gorm:"primaryKey;autoIncrement:false"`
	VendorID  int64 `gorm:"primaryKey;autoIncrement:false"`
}

// TableName returns the table name for GORM
func (ProductVendorAllowModel) TableName() string {
	return "product_vendor_allowlist"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	courseIDs := make([]int64, 0, len(m.Courses))
	for _, c := range m.Courses {
		courseIDs = append(courseIDs, c.CourseID)
	}
	vendors := make([]int64, 0, len(m.AllowList))
	for _, a := range m.AllowList {
		vendors = append(vendors, a.VendorID)
	}

	attrs := json.RawMessage(m.Attributes)
	if len(attrs) == 0 {
		attrs = json.RawMessage("{}")
	}

	p := &catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		OwnerID:           m.OwnerID,
		Title:             m.Title,
		Slug:              m.Slug,
		Description:       m.Description,
		SKU:               m.SKU,
		Price:             m.Price,
		Status:            catalog.ProductStatus(m.Status),
		Attributes:        attrs,
		AvailabilityMode:  catalog.AvailabilityMode(m.AvailabilityMode),
		VendorAllowList:   catalog.NewVendorSet(vendors...),
		DuplicatedFrom:    m.DuplicatedFrom,
	}
	if len(courseIDs) > 0 {
		slices.Sort(courseIDs)
		p.CourseIDs = slices.Compact(courseIDs)
	}
	return p
}

// FromDomain populates the persistence model from a domain Product,
// including its course links and allow-list rows.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.OwnerID = p.OwnerID
	m.Title = p.Title
	m.Slug = p.Slug
	m.Description = p.Description
	m.SKU = p.SKU
	m.Price = p.Price
	m.Status = string(p.Status)
	m.Attributes = datatypes.JSON(p.Attributes)
	m.AvailabilityMode = string(p.AvailabilityMode)
	m.DuplicatedFrom = p.DuplicatedFrom

	m.Courses = make([]ProductCourseModel, 0, len(p.CourseIDs))
	for _, id := range p.CourseIDs {
		m.Courses = append(m.Courses, ProductCourseModel{ProductID: p.ID, CourseID: id})
	}
	m.AllowList = make([]ProductVendorAllowModel, 0, len(p.VendorAllowList))
	for _, id := range p.VendorAllowList.IDs() {
		m.AllowList = append(m.AllowList, ProductVendorAllowModel{ProductID: p.ID, VendorID: id})
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
