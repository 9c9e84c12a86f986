package listing

import (
	"strings"
	"testing"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestRenderer_NewRow(t *testing.T) {
	r := NewRenderer(language.English)
	p, err := catalog.NewProduct(0, "Advanced Go", "ADV", decimal.RequireFromString("1234.5"))
	require.NoError(t, err)
	p.ID = 12
	require.NoError(t, p.LinkCourses([]int64{1, 2}))

	row := r.NewRow(p, true, 0)
	assert.Equal(t, int64(12), row.ID)
	assert.Equal(t, "1,234.50", row.Price)
	assert.Equal(t, "2 courses", row.Courses)
	assert.Equal(t, "Draft", row.Status)
	assert.True(t, row.CanDuplicate)
	assert.False(t, row.AlreadyDuplicated)

	dupRow := r.NewRow(p, true, 99)
	assert.False(t, dupRow.CanDuplicate)
	assert.True(t, dupRow.AlreadyDuplicated)
	assert.Equal(t, int64(99), dupRow.DuplicateID)
}

func TestRenderer_RenderListing(t *testing.T) {
	r := NewRenderer(language.English)
	html, err := r.RenderListing([]Row{
		{ID: 3, Title: "<b>Go</b> & more", CanDuplicate: true},
		{ID: 2, Title: "Rust", AlreadyDuplicated: true, DuplicateID: 40},
		{ID: 1, Title: "Zig"},
	})
	require.NoError(t, err)

	assert.Contains(t, html, `<button type="button" class="cb-duplicate" data-product-id="3">Duplicate</button>`)
	assert.Contains(t, html, `data-duplicate-id="40">Already duplicated</span>`)
	assert.Contains(t, html, `<span class="cb-unavailable">Not available</span>`)
	assert.Contains(t, html, "&lt;b&gt;Go&lt;/b&gt; &amp; more")
	assert.Less(t, strings.Index(html, `data-product-id="3"`), strings.Index(html, `data-product-id="2"`))
}

func TestRenderer_RenderPagination(t *testing.T) {
	r := NewRenderer(language.English)

	html, err := r.RenderPagination(1, 1)
	require.NoError(t, err)
	assert.Empty(t, html)

	html, err = r.RenderPagination(2, 9)
	require.NoError(t, err)
	assert.Contains(t, html, `data-current-page="2"`)
	assert.Contains(t, html, `<span class="cb-page current" aria-current="page">2</span>`)
	assert.Contains(t, html, `<a href="#" class="cb-page" data-page="1">1</a>`)
	assert.Contains(t, html, `<a href="#" class="cb-page" data-page="5">5</a>`)
	assert.NotContains(t, html, `data-page="6"`)
	assert.Contains(t, html, `&hellip;`)
	assert.Contains(t, html, `data-page="9"`)
	assert.NotContains(t, html, "Next")
}
