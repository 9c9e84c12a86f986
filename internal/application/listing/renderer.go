package listing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/coursebridge/backend/internal/domain/catalog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const listingTemplate = `<table class="cb-products">
<thead><tr><th>ID</th><th>Product</th><th>Price</th><th>Courses</th><th>Status</th><th></th></tr></thead>
<tbody>
{{- range .}}
<tr data-product-id="{{.ID}}">
<td>{{.ID}}</td><td>{{.Title}}</td><td>{{.Price}}</td><td>{{.Courses}}</td><td>{{.Status}}</td>
<td>
{{- if .AlreadyDuplicated}}<span class="cb-duplicated" data-duplicate-id="{{.DuplicateID}}">Already duplicated</span>
{{- else if .CanDuplicate}}<button type="button" class="cb-duplicate" data-product-id="{{.ID}}">Duplicate</button>
{{- else}}<span class="cb-unavailable">Not available</span>
{{- end -}}
</td>
</tr>
{{- end}}
</tbody>
</table>`

const paginationTemplate = `<nav class="cb-pagination" data-current-page="{{.Current}}" data-total-pages="{{.Total}}">
{{- range .Links}}
{{- if .Gap}}<span class="cb-gap">&hellip;</span>
{{- else if .Current}}<span class="cb-page current" aria-current="page">{{.Page}}</span>
{{- else}}<a href="#" class="cb-page" data-page="{{.Page}}">{{.Page}}</a>
{{- end}}
{{- end -}}
</nav>`

// Row is one product line of the listing
type Row struct {
	ID                int64
	Title             string
	Price             string
	Courses           string
	Status            string
	CanDuplicate      bool
	AlreadyDuplicated bool
	DuplicateID       int64
}

type paginationData struct {
	Current int
	Total   int
	Links   []PageLink
}

// Renderer turns listing rows and page links into HTML fragments
type Renderer struct {
	listing    *template.Template
	pagination *template.Template
	printer    *message.Printer
	caser      cases.Caser
}

// NewRenderer creates a renderer formatting numbers for lang
func NewRenderer(lang language.Tag) *Renderer {
	return &Renderer{
		listing:    template.Must(template.New("listing").Parse(listingTemplate)),
		pagination: template.Must(template.New("pagination").Parse(paginationTemplate)),
		printer:    message.NewPrinter(lang),
		caser:      cases.Title(lang),
	}
}

// NewRow builds the display row for p as seen by one vendor.
// duplicateID is the vendor's existing copy of p, or 0.
func (r *Renderer) NewRow(p *catalog.Product, canDuplicate bool, duplicateID int64) Row {
	return Row{
		ID:                p.ID,
		Title:             p.Title,
		Price:             r.printer.Sprintf("%.2f", p.Price.InexactFloat64()),
		Courses:           r.courseLabel(len(p.CourseIDs)),
		Status:            r.caser.String(string(p.Status)),
		CanDuplicate:      canDuplicate && duplicateID == 0,
		AlreadyDuplicated: duplicateID != 0,
		DuplicateID:       duplicateID,
	}
}

func (r *Renderer) courseLabel(n int) string {
	switch n {
	case 0:
		return "No course"
	case 1:
		return "1 course"
	default:
		return r.printer.Sprintf("%d courses", n)
	}
}

// RenderListing renders the product table
func (r *Renderer) RenderListing(rows []Row) (string, error) {
	var buf bytes.Buffer
	if err := r.listing.Execute(&buf, rows); err != nil {
		return "", fmt.Errorf("render listing: %w", err)
	}
	return buf.String(), nil
}

// RenderPagination renders the page bar, or "" when there is one page
func (r *Renderer) RenderPagination(current, total int) (string, error) {
	links := PageLinks(current, total)
	if len(links) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.pagination.Execute(&buf, paginationData{Current: current, Total: total, Links: links}); err != nil {
		return "", fmt.Errorf("render pagination: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
