package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursebridge/backend/internal/domain/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/auth"
	"github.com/coursebridge/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRoleChecker struct {
	mock.Mock
}

func (m *mockRoleChecker) HasRole(ctx context.Context, userID int64, role identity.Role) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

func newNonces() *auth.NonceService {
	return auth.NewNonceService(config.NonceConfig{Secret: "test-nonce-secret", Lifetime: time.Hour})
}

func vendorRequest(t *testing.T, nonces *auth.NonceService, action string) RequestContext {
	t.Helper()
	nonce, _, err := nonces.Issue(action, 42, "sess-1")
	require.NoError(t, err)
	return RequestContext{
		UserID:    42,
		SessionID: "sess-1",
		Roles:     identity.NewRoleSet(identity.RoleVendor),
		Nonce:     nonce,
	}
}

func TestGuard_Authorize(t *testing.T) {
	ctx := context.Background()
	nonces := newNonces()

	t.Run("vendor with valid nonce passes", func(t *testing.T) {
		guard := NewGuard(nonces, nil, zap.NewNop())
		err := guard.Authorize(ctx, vendorRequest(t, nonces, ActionDuplicate), ActionDuplicate)
		assert.NoError(t, err)
	})

	t.Run("missing nonce is a security error", func(t *testing.T) {
		guard := NewGuard(nonces, nil, zap.NewNop())
		req := vendorRequest(t, nonces, ActionDuplicate)
		req.Nonce = ""

		err := guard.Authorize(ctx, req, ActionDuplicate)
		assert.ErrorIs(t, err, shared.ErrSecurity)
	})

	t.Run("nonce for another action is a security error", func(t *testing.T) {
		guard := NewGuard(nonces, nil, zap.NewNop())
		req := vendorRequest(t, nonces, ActionFetchList)

		err := guard.Authorize(ctx, req, ActionDuplicate)
		assert.ErrorIs(t, err, shared.ErrSecurity)
	})

	t.Run("nonce from another session is a security error", func(t *testing.T) {
		guard := NewGuard(nonces, nil, zap.NewNop())
		req := vendorRequest(t, nonces, ActionDuplicate)
		req.SessionID = "sess-2"

		err := guard.Authorize(ctx, req, ActionDuplicate)
		assert.ErrorIs(t, err, shared.ErrSecurity)
	})

	t.Run("nonce is checked before role", func(t *testing.T) {
		guard := NewGuard(nonces, nil, zap.NewNop())
		req := RequestContext{UserID: 7, SessionID: "s", Roles: identity.NewRoleSet(identity.RoleCustomer)}

		err := guard.Authorize(ctx, req, ActionDuplicate)
		assert.ErrorIs(t, err, shared.ErrSecurity)
	})

	t.Run("non vendor is denied", func(t *testing.T) {
		guard := NewGuard(nonces, nil, zap.NewNop())
		req := vendorRequest(t, nonces, ActionDuplicate)
		req.Roles = identity.NewRoleSet(identity.RoleCustomer)

		err := guard.Authorize(ctx, req, ActionDuplicate)
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})

	t.Run("anonymous caller with a matching nonce is denied", func(t *testing.T) {
		guard := NewGuard(nonces, nil, zap.NewNop())
		nonce, _, err := nonces.Issue(ActionFetchList, 0, "")
		require.NoError(t, err)

		err = guard.Authorize(ctx, RequestContext{Nonce: nonce}, ActionFetchList)
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})

	t.Run("role checker overrides token roles", func(t *testing.T) {
		roles := &mockRoleChecker{}
		roles.On("HasRole", ctx, int64(42), identity.RoleVendor).Return(false, nil)
		guard := NewGuard(nonces, roles, zap.NewNop())

		err := guard.Authorize(ctx, vendorRequest(t, nonces, ActionDuplicate), ActionDuplicate)
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
		roles.AssertExpectations(t)
	})

	t.Run("unknown user is denied", func(t *testing.T) {
		roles := &mockRoleChecker{}
		roles.On("HasRole", ctx, int64(42), identity.RoleVendor).Return(false, shared.ErrNotFound)
		guard := NewGuard(nonces, roles, zap.NewNop())

		err := guard.Authorize(ctx, vendorRequest(t, nonces, ActionDuplicate), ActionDuplicate)
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})

	t.Run("role lookup failure is a persistence error", func(t *testing.T) {
		roles := &mockRoleChecker{}
		roles.On("HasRole", ctx, int64(42), identity.RoleVendor).Return(false, errors.New("db down"))
		guard := NewGuard(nonces, roles, zap.NewNop())

		err := guard.Authorize(ctx, vendorRequest(t, nonces, ActionDuplicate), ActionDuplicate)
		assert.Equal(t, shared.CodePersistenceError, shared.CodeOf(err))
	})
}
