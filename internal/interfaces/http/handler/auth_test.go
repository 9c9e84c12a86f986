package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	appidentity "github.com/coursebridge/backend/internal/application/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/auth"
	"github.com/coursebridge/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.LoginResult), args.Error(1)
}

func (m *mockAuthenticator) Logout(ctx context.Context, input appidentity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthenticator) GetCurrentUser(ctx context.Context, userID int64) (*appidentity.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.UserInfo), args.Error(1)
}

type fixedTTL time.Duration

func (f fixedTTL) RemainingTTL(*auth.Claims) time.Duration { return time.Duration(f) }

func authRouter(claims *auth.Claims, svc *mockAuthenticator) *gin.Engine {
	h := NewAuthHandler(svc, fixedTTL(10*time.Minute))
	r := gin.New()
	r.POST("/auth/login", h.Login)
	signed := r.Group("", signedIn(claims))
	signed.POST("/auth/logout", h.Logout)
	signed.GET("/auth/me", h.GetCurrentUser)
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(mockAuthenticator)
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	svc.On("Login", mock.Anything, mock.MatchedBy(func(in appidentity.LoginInput) bool {
		return in.Username == "vendor7" && in.Password == "correct-horse" && in.IP != ""
	})).Return(&appidentity.LoginResult{
		AccessToken: "token-abc",
		ExpiresAt:   expires,
		TokenType:   "Bearer",
		SessionID:   "sid-7",
		User: appidentity.UserInfo{
			ID:          7,
			Username:    "vendor7",
			DisplayName: "Vendor Seven",
			Roles:       []string{"vendor"},
		},
	}, nil)

	w := postJSON(authRouter(nil, svc), "/auth/login", `{"username":"vendor7","password":"correct-horse"}`)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{
		"token": {"access_token":"token-abc","expires_at":"`+expires.Format(time.RFC3339)+`","token_type":"Bearer"},
		"user": {"id":7,"username":"vendor7","display_name":"Vendor Seven","roles":["vendor"]}
	}`, string(env.Data))
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	svc := new(mockAuthenticator)

	w := postJSON(authRouter(nil, svc), "/auth/login", `{"username":"ab"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	assert.NotEmpty(t, env.Error.Details)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_LoginRejected(t *testing.T) {
	svc := new(mockAuthenticator)
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError(dto.ErrCodeInvalidCredentials, "Invalid username or password"))

	w := postJSON(authRouter(nil, svc), "/auth/login", `{"username":"vendor7","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidCredentials, decode(t, w).Error.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(mockAuthenticator)
	svc.On("Logout", mock.Anything, appidentity.LogoutInput{
		UserID:   7,
		TokenJTI: "jti-7",
		TTL:      10 * time.Minute,
	}).Return(nil)

	w := postJSON(authRouter(vendorClaims(), svc), "/auth/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_LogoutRequiresSession(t *testing.T) {
	w := postJSON(authRouter(nil, new(mockAuthenticator)), "/auth/logout", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decode(t, w).Error.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	svc := new(mockAuthenticator)
	svc.On("GetCurrentUser", mock.Anything, int64(7)).Return(&appidentity.UserInfo{
		ID:       7,
		Username: "vendor7",
		Roles:    []string{"vendor"},
	}, nil)

	w := doGet(authRouter(vendorClaims(), svc), "/auth/me")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"username":"vendor7"`)
}

func TestAuthHandler_GetCurrentUserAnonymous(t *testing.T) {
	w := doGet(authRouter(nil, new(mockAuthenticator)), "/auth/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
