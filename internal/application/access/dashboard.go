package access

import (
	"context"
	"time"

	"github.com/coursebridge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NonceIssuer mints action-scoped anti-forgery tokens
type NonceIssuer interface {
	Issue(action string, userID int64, sessionID string) (string, time.Time, error)
}

// Bootstrap is what the vendor dashboard needs before it can call the ajax
// endpoint.
type Bootstrap struct {
	AjaxURL   string            `json:"ajaxUrl"`
	Nonces    map[string]string `json:"nonces"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Dashboard issues one nonce per dashboard action for the signed-in vendor
type Dashboard struct {
	nonces  NonceIssuer
	guard   *Guard
	ajaxURL string
	logger  *zap.Logger
}

// NewDashboard creates the dashboard bootstrap service
func NewDashboard(nonces NonceIssuer, guard *Guard, ajaxURL string, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		nonces:  nonces,
		guard:   guard,
		ajaxURL: ajaxURL,
		logger:  logger,
	}
}

// Bootstrap returns the ajax URL and fresh nonces. Anonymous callers get
// shared.ErrUnauthorized, signed-in non-vendors shared.ErrAccessDenied.
func (d *Dashboard) Bootstrap(ctx context.Context, req RequestContext) (*Bootstrap, error) {
	if req.IsAnonymous() {
		return nil, shared.ErrUnauthorized
	}
	isVendor, err := d.guard.isVendor(ctx, req)
	if err != nil {
		return nil, err
	}
	if !isVendor {
		return nil, shared.ErrAccessDenied
	}

	result := &Bootstrap{
		AjaxURL: d.ajaxURL,
		Nonces:  make(map[string]string, len(Actions)),
	}
	for _, action := range Actions {
		nonce, expiresAt, err := d.nonces.Issue(action, req.UserID, req.SessionID)
		if err != nil {
			return nil, shared.WrapDomainError(shared.CodeSecurityError, "failed to issue nonce", err)
		}
		result.Nonces[action] = nonce
		if result.ExpiresAt.IsZero() || expiresAt.Before(result.ExpiresAt) {
			result.ExpiresAt = expiresAt
		}
	}

	d.logger.Debug("dashboard nonces issued", zap.Int64("user_id", req.UserID))
	return result, nil
}
