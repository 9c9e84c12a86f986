package identity

import (
	"testing"

	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Vendor.Seven ", "s3cret-pass", RoleVendor)
	require.NoError(t, err)

	assert.Equal(t, "vendor.seven", u.Username)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, u.VerifyPassword("s3cret-pass"))
	assert.False(t, u.VerifyPassword("wrong-pass"))
	assert.True(t, u.IsVendor())
	assert.False(t, u.IsAdministrator())
	assert.True(t, u.CanLogin())
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		code     string
	}{
		{"short username", "ab", "password1", "INVALID_USERNAME"},
		{"bad characters", "bad name", "password1", "INVALID_USERNAME"},
		{"short password", "vendor7", "short", "INVALID_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.password)
			assert.Equal(t, tt.code, shared.CodeOf(err))
		})
	}
}

func TestUser_Disable(t *testing.T) {
	u, err := NewUser("admin", "password1", RoleAdministrator)
	require.NoError(t, err)

	u.Disable()
	assert.False(t, u.CanLogin())
}

func TestRoleSet(t *testing.T) {
	s := NewRoleSet(RoleVendor, "", ParseRole(" Administrator "))

	assert.Len(t, s, 2)
	assert.True(t, s.Has(RoleAdministrator))
	assert.False(t, s.Has(RoleCustomer))
	assert.ElementsMatch(t, []string{"vendor", "administrator"}, s.Strings())
}
