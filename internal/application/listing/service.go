// Package listing implements the vendor "fetch products list" action: a page
// of admin products rendered as HTML fragments.
package listing

import (
	"context"

	"github.com/coursebridge/backend/internal/application/access"
	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProductLister is the read side of the product repository used here
type ProductLister interface {
	FindAdminOwned(ctx context.Context, filter shared.Filter) ([]catalog.Product, error)
	CountAdminOwned(ctx context.Context) (int64, error)
	FindDuplicateSources(ctx context.Context, vendorID int64, sourceIDs []int64) (map[int64]int64, error)
}

// Authorizer runs the nonce and role checks for an action
type Authorizer interface {
	Authorize(ctx context.Context, req access.RequestContext, action string) error
}

// Fragment is the rendered listing page
type Fragment struct {
	ListingMarkup    string `json:"listing_markup"`
	PaginationMarkup string `json:"pagination_markup"`
	Page             int    `json:"page"`
	TotalPages       int    `json:"total_pages"`
}

// Service handles fetch_products_lists requests
type Service struct {
	guard    Authorizer
	products ProductLister
	renderer *Renderer
	logger   *zap.Logger
}

func NewService(guard Authorizer, products ProductLister, renderer *Renderer, logger *zap.Logger) *Service {
	return &Service{
		guard:    guard,
		products: products,
		renderer: renderer,
		logger:   logger,
	}
}

// Fetch checks the nonce and vendor role, then renders page rawPage of
// admin-owned products, newest first. A page with no products is
// shared.ErrNoResults.
func (s *Service) Fetch(ctx context.Context, req access.RequestContext, rawPage string) (*Fragment, error) {
	ctx, span := telemetry.StartSpan(ctx, "listing.fetch", attribute.Int64("vendor.id", req.UserID))
	defer span.End()

	fragment, err := s.fetch(ctx, req, rawPage)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("listing.page", fragment.Page))
	return fragment, nil
}

func (s *Service) fetch(ctx context.Context, req access.RequestContext, rawPage string) (*Fragment, error) {
	if err := s.guard.Authorize(ctx, req, access.ActionFetchList); err != nil {
		return nil, err
	}

	page := ParsePage(rawPage)
	filter := shared.Filter{Page: page, PageSize: PageSize, OrderBy: "id", OrderDir: "desc"}

	total, err := s.products.CountAdminOwned(ctx)
	if err != nil {
		return nil, err
	}
	totalPages := TotalPages(total)
	if page > totalPages {
		s.logger.Debug("listing page out of range",
			zap.Int("page", page),
			zap.Int("total_pages", totalPages),
		)
		return nil, shared.ErrNoResults
	}
	products, err := s.products.FindAdminOwned(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		s.logger.Debug("listing page empty",
			zap.Int("page", page),
			zap.Int64("total", total),
		)
		return nil, shared.ErrNoResults
	}

	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	duplicates, err := s.products.FindDuplicateSources(ctx, req.UserID, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(products))
	for i := range products {
		p := &products[i]
		rows[i] = s.renderer.NewRow(p, p.CanBeDuplicatedBy(req.UserID), duplicates[p.ID])
	}

	listing, err := s.renderer.RenderListing(rows)
	if err != nil {
		return nil, err
	}
	pagination, err := s.renderer.RenderPagination(page, totalPages)
	if err != nil {
		return nil, err
	}

	return &Fragment{
		ListingMarkup:    listing,
		PaginationMarkup: pagination,
		Page:             page,
		TotalPages:       totalPages,
	}, nil
}
