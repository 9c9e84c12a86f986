// Package access performs the anti-forgery and role checks shared by the
// vendor dashboard actions.
package access

import (
	"context"
	"errors"

	"github.com/coursebridge/backend/internal/domain/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Dashboard actions. Each nonce is bound to exactly one of these.
const (
	ActionDuplicate = "duplicate_admin_product"
	ActionFetchList = "fetch_products_lists"
)

// Actions lists every action the dashboard issues nonces for
var Actions = []string{ActionDuplicate, ActionFetchList}

// RequestContext is the caller identity for one request. UserID 0 means
// the caller is not signed in.
type RequestContext struct {
	UserID    int64
	SessionID string
	Roles     identity.RoleSet
	Nonce     string
}

// IsAnonymous reports whether no user is signed in
func (r RequestContext) IsAnonymous() bool {
	return r.UserID <= 0
}

// NonceVerifier checks action-scoped anti-forgery tokens
type NonceVerifier interface {
	Verify(nonce, action string, userID int64, sessionID string) error
}

// RoleChecker looks up a user's current roles
type RoleChecker interface {
	HasRole(ctx context.Context, userID int64, role identity.Role) (bool, error)
}

// Guard runs the nonce check, then the vendor role check
type Guard struct {
	nonces NonceVerifier
	roles  RoleChecker
	logger *zap.Logger
}

// NewGuard creates a guard. roles may be nil, in which case only the roles
// carried in the request context are consulted.
func NewGuard(nonces NonceVerifier, roles RoleChecker, logger *zap.Logger) *Guard {
	return &Guard{
		nonces: nonces,
		roles:  roles,
		logger: logger,
	}
}

// Authorize returns shared.ErrSecurity when the nonce is not valid for
// action, and shared.ErrAccessDenied when the caller is not a vendor.
func (g *Guard) Authorize(ctx context.Context, req RequestContext, action string) error {
	if err := g.nonces.Verify(req.Nonce, action, req.UserID, req.SessionID); err != nil {
		g.logger.Debug("nonce rejected",
			zap.String("action", action),
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return shared.WrapDomainError(shared.CodeSecurityError, shared.ErrSecurity.Message, err)
	}

	isVendor, err := g.isVendor(ctx, req)
	if err != nil {
		return err
	}
	if !isVendor {
		return shared.ErrAccessDenied
	}
	return nil
}

func (g *Guard) isVendor(ctx context.Context, req RequestContext) (bool, error) {
	if req.IsAnonymous() {
		return false, nil
	}
	if g.roles == nil {
		return req.Roles.Has(identity.RoleVendor), nil
	}
	ok, err := g.roles.HasRole(ctx, req.UserID, identity.RoleVendor)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, shared.WrapDomainError(shared.CodePersistenceError, "failed to load user roles", err)
	}
	return ok, nil
}
