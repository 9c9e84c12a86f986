// Package duplication implements the vendor "duplicate admin product" action.
package duplication

import (
	"context"
	"errors"
	"time"

	"github.com/coursebridge/backend/internal/application/access"
	"github.com/coursebridge/backend/internal/domain/catalog"
	"github.com/coursebridge/backend/internal/domain/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/logger"
	"github.com/coursebridge/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const resultSuccess = "success"

// ProductFinder loads products by ID
type ProductFinder interface {
	FindByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// ProductDuplicator creates a vendor copy of a product
type ProductDuplicator interface {
	Duplicate(ctx context.Context, sourceID, vendorID int64, courseIDs []int64) (int64, error)
}

// Authorizer runs the nonce and role checks for an action
type Authorizer interface {
	Authorize(ctx context.Context, req access.RequestContext, action string) error
}

// Result is returned on a successful duplication
type Result struct {
	NewProductID int64 `json:"new_product_id"`
}

// Service handles duplicate_admin_product requests
type Service struct {
	guard     Authorizer
	products  ProductFinder
	users     access.RoleChecker
	executor  ProductDuplicator
	adminRole identity.Role
	metrics   *telemetry.DuplicationMetrics
	logger    *zap.Logger
}

// NewService creates the duplication service. adminRole is the role whose
// products, together with house products, may be duplicated.
func NewService(
	guard Authorizer,
	products ProductFinder,
	users access.RoleChecker,
	executor ProductDuplicator,
	adminRole string,
	logger *zap.Logger,
) *Service {
	role := identity.ParseRole(adminRole)
	if role == "" {
		role = identity.RoleAdministrator
	}
	return &Service{
		guard:     guard,
		products:  products,
		users:     users,
		executor:  executor,
		adminRole: role,
		logger:    logger,
	}
}

// SetMetrics enables duplication metrics
func (s *Service) SetMetrics(m *telemetry.DuplicationMetrics) {
	s.metrics = m
}

// Duplicate runs the checks in order and stops at the first failure:
// nonce (SECURITY_ERROR), vendor role (ACCESS_DENIED), product exists
// (NOT_FOUND), owner is house or admin (NOT_ADMIN_PRODUCT), eligibility
// (NOT_AVAILABLE), then the copy itself (CREATION_FAILED).
func (s *Service) Duplicate(ctx context.Context, req access.RequestContext, productID int64) (result *Result, err error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "duplication.duplicate",
		attribute.Int64("product.id", productID),
		attribute.Int64("vendor.id", req.UserID),
	)
	defer func() {
		outcome := resultSuccess
		if err != nil {
			outcome = shared.CodeOf(err)
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetOK(span)
		}
		if s.metrics != nil {
			s.metrics.RecordDuplication(ctx, outcome, time.Since(start))
		}
		span.End()
	}()

	log := logger.L(logger.WithContext(ctx, s.logger)).With(
		zap.Int64("product_id", productID),
		zap.Int64("vendor_id", req.UserID),
	)

	if err := s.guard.Authorize(ctx, req, access.ActionDuplicate); err != nil {
		log.Info("duplicate rejected", zap.String("code", shared.CodeOf(err)))
		return nil, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	adminOwned, err := s.isAdminOwned(ctx, product)
	if err != nil {
		return nil, err
	}
	if !adminOwned {
		log.Info("duplicate rejected: not an admin product", zap.Int64("owner_id", product.OwnerID))
		return nil, shared.ErrNotAdminProduct
	}

	if !product.CanBeDuplicatedBy(req.UserID) {
		log.Info("duplicate rejected: not available",
			zap.String("availability", string(product.AvailabilityMode)),
		)
		return nil, shared.ErrNotAvailable
	}

	newID, err := s.executor.Duplicate(ctx, product.ID, req.UserID, product.CourseIDs)
	if err != nil {
		log.Error("duplicate failed", zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeCreationFailed, shared.ErrCreationFailed.Message, err)
	}

	log.Info("product duplicated", zap.Int64("new_product_id", newID))
	return &Result{NewProductID: newID}, nil
}

func (s *Service) loadProduct(ctx context.Context, productID int64) (*catalog.Product, error) {
	if productID <= 0 {
		return nil, shared.ErrNotFound
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *Service) isAdminOwned(ctx context.Context, product *catalog.Product) (bool, error) {
	if product.IsHouseOwned() {
		return true, nil
	}
	ok, err := s.users.HasRole(ctx, product.OwnerID, s.adminRole)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, shared.WrapDomainError(shared.CodePersistenceError, "failed to load product owner", err)
	}
	return ok, nil
}
