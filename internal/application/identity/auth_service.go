package identity

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/coursebridge/backend/internal/domain/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateToken(input auth.GenerateTokenInput) (*auth.SessionToken, *auth.Claims, error)
}

// AuthService handles login and logout
type AuthService struct {
	userRepo  identity.UserRepository
	tokens    TokenIssuer
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Login verifies credentials and starts a new session
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username), zap.String("ip", input.IP))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to load user during login", zap.Error(err))
			return nil, err
		}
		s.logger.Warn("User not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for disabled account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account has been disabled")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	roles := user.Roles.Strings()
	sort.Strings(roles)

	token, claims, err := s.tokens.GenerateToken(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    roles,
	})
	if err != nil {
		s.logger.Error("Failed to generate session token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	user.RecordLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, user); err != nil {
		// the session is valid even if the timestamp could not be stored
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in successfully",
		zap.String("username", user.Username),
		zap.Int64("user_id", user.ID),
	)

	return &LoginResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		SessionID:   claims.SessionID,
		User: UserInfo{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.GetDisplayNameOrUsername(),
			Email:       user.Email,
			Roles:       roles,
		},
	}, nil
}

// Logout revokes the session token until it would have expired. Nonces
// bound to the session stop working with it.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Token ID is required")
	}
	ttl := input.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to revoke session token", zap.Error(err))
		return shared.WrapDomainError(shared.CodePersistenceError, "Failed to revoke session", err)
	}

	s.logger.Info("User logout", zap.Int64("user_id", input.UserID))
	return nil
}

// GetCurrentUser returns the signed-in user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles := user.Roles.Strings()
	sort.Strings(roles)
	return &UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Email:       user.Email,
		Roles:       roles,
	}, nil
}
