package access

import (
	"context"
	"testing"

	"github.com/coursebridge/backend/internal/domain/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboard_Bootstrap(t *testing.T) {
	ctx := context.Background()
	nonces := newNonces()
	guard := NewGuard(nonces, nil, zap.NewNop())
	dashboard := NewDashboard(nonces, guard, "/api/v1/ajax", zap.NewNop())

	t.Run("vendor receives one nonce per action", func(t *testing.T) {
		req := RequestContext{UserID: 42, SessionID: "sess-1", Roles: identity.NewRoleSet(identity.RoleVendor)}

		result, err := dashboard.Bootstrap(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/ajax", result.AjaxURL)
		assert.Len(t, result.Nonces, len(Actions))
		assert.False(t, result.ExpiresAt.IsZero())

		for _, action := range Actions {
			req.Nonce = result.Nonces[action]
			assert.NoError(t, guard.Authorize(ctx, req, action), action)
		}
	})

	t.Run("nonces are not interchangeable between actions", func(t *testing.T) {
		req := RequestContext{UserID: 42, SessionID: "sess-1", Roles: identity.NewRoleSet(identity.RoleVendor)}

		result, err := dashboard.Bootstrap(ctx, req)
		require.NoError(t, err)

		req.Nonce = result.Nonces[ActionFetchList]
		assert.ErrorIs(t, guard.Authorize(ctx, req, ActionDuplicate), shared.ErrSecurity)
	})

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		_, err := dashboard.Bootstrap(ctx, RequestContext{})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("customer is denied", func(t *testing.T) {
		req := RequestContext{UserID: 7, SessionID: "sess-2", Roles: identity.NewRoleSet(identity.RoleCustomer)}
		_, err := dashboard.Bootstrap(ctx, req)
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})
}
