package catalog

import (
	"encoding/json"
	"testing"

	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(HouseOwnerID, "Intro to Go", "GO-101", decimal.NewFromFloat(49.90))
	require.NoError(t, err)
	p.ID = 42
	return p
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(0, "  Intro to Go ", "GO-101", decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Equal(t, "Intro to Go", p.Title)
	assert.Equal(t, "intro-to-go", p.Slug)
	assert.Equal(t, ProductStatusDraft, p.Status)
	assert.True(t, p.IsHouseOwned())
	assert.True(t, p.IsNew())
	assert.JSONEq(t, "{}", string(p.Attributes))
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name  string
		owner int64
		title string
		sku   string
		price decimal.Decimal
		code  string
	}{
		{"empty title", 0, "   ", "X", decimal.Zero, "INVALID_TITLE"},
		{"negative price", 0, "Course", "X", decimal.NewFromInt(-1), "INVALID_PRICE"},
		{"negative owner", -1, "Course", "X", decimal.Zero, "INVALID_OWNER"},
		{"long sku", 0, "Course", string(make([]byte, 51)), decimal.Zero, "INVALID_SKU"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.owner, tt.title, tt.sku, tt.price)
			require.Error(t, err)
			assert.Equal(t, tt.code, shared.CodeOf(err))
		})
	}
}

func TestProduct_CanBeDuplicatedBy(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.LinkCourses([]int64{100}))

	assert.True(t, p.CanBeDuplicatedBy(8), "unset mode with a course defaults to yes")

	p.SetAvailability(AvailabilitySelective, 7)
	assert.True(t, p.CanBeDuplicatedBy(7))
	assert.False(t, p.CanBeDuplicatedBy(8))

	p.SetAvailability(AvailabilityNo)
	assert.False(t, p.CanBeDuplicatedBy(7))
}

func TestProduct_LinkCourses(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.LinkCourses([]int64{5, 3, 5}))
	assert.Equal(t, []int64{3, 5}, p.CourseIDs)
	assert.True(t, p.HasCourse())

	err := p.LinkCourses([]int64{1, 0})
	assert.Equal(t, "INVALID_COURSE", shared.CodeOf(err))
}

func TestProduct_SetAttributes(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.SetAttributes(json.RawMessage(`{"level":"beginner"}`)))
	assert.JSONEq(t, `{"level":"beginner"}`, string(p.Attributes))

	assert.Error(t, p.SetAttributes(json.RawMessage(`[1,2]`)))
	require.NoError(t, p.SetAttributes(nil))
	assert.JSONEq(t, "{}", string(p.Attributes))
}

func TestProduct_DuplicateFor(t *testing.T) {
	src := newTestProduct(t)
	src.Description = "Learn Go"
	require.NoError(t, src.SetAttributes(json.RawMessage(`{"level":"beginner"}`)))
	require.NoError(t, src.LinkCourses([]int64{11, 12}))
	src.SetAvailability(AvailabilitySelective, 7)
	require.NoError(t, src.Publish())

	dup, err := src.DuplicateFor(7, []int64{12, 11})
	require.NoError(t, err)

	assert.True(t, dup.IsNew())
	assert.Equal(t, int64(7), dup.OwnerID)
	assert.Equal(t, src.Title, dup.Title)
	assert.Equal(t, "intro-to-go-7", dup.Slug)
	assert.Equal(t, "GO-101-V7", dup.SKU)
	assert.True(t, src.Price.Equal(dup.Price))
	assert.Equal(t, ProductStatusDraft, dup.Status)
	assert.Equal(t, AvailabilityNo, dup.AvailabilityMode)
	assert.Empty(t, dup.VendorAllowList)
	assert.ElementsMatch(t, []int64{11, 12}, dup.CourseIDs)
	require.NotNil(t, dup.DuplicatedFrom)
	assert.Equal(t, int64(42), *dup.DuplicatedFrom)
	assert.JSONEq(t, `{"level":"beginner"}`, string(dup.Attributes))

	// source untouched
	assert.Equal(t, ProductStatusPublished, src.Status)
	assert.Equal(t, int64(0), src.OwnerID)

	events := dup.GetDomainEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(*ProductDuplicatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(42), evt.SourceProductID)
	assert.Equal(t, int64(7), evt.VendorID)
	assert.Equal(t, []int64{11, 12}, evt.CourseIDs)

	evt.AssignProductID(501)
	assert.Equal(t, int64(501), evt.ProductID)
	assert.Equal(t, int64(501), evt.AggregateID())
}

func TestProduct_DuplicateFor_RejectsInvalidVendor(t *testing.T) {
	src := newTestProduct(t)

	_, err := src.DuplicateFor(0, nil)
	assert.Equal(t, shared.CodeInvalidInput, shared.CodeOf(err))
}

func TestProduct_DuplicateFor_EmptyCourses(t *testing.T) {
	src := newTestProduct(t)
	src.SKU = ""

	dup, err := src.DuplicateFor(3, nil)
	require.NoError(t, err)
	assert.Empty(t, dup.CourseIDs)
	assert.Equal(t, "", dup.SKU)
}
