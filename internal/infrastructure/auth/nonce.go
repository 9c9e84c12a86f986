package auth

import (
	"errors"
	"time"

	"github.com/coursebridge/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidNonce = errors.New("invalid nonce")
	ErrExpiredNonce = errors.New("nonce has expired")
)

const nonceIssuer = "coursebridge-nonce"

// nonceClaims bind a nonce to one action, one user and one login session
type nonceClaims struct {
	jwt.RegisteredClaims
	Action    string `json:"act"`
	UserID    int64  `json:"uid"`
	SessionID string `json:"sid"`
}

// NonceService issues and verifies action-scoped anti-forgery tokens.
// Nonces are stateless: a valid signature plus matching action, user and
// session is sufficient.
type NonceService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewNonceService creates a nonce service from configuration
func NewNonceService(cfg config.NonceConfig) *NonceService {
	return &NonceService{
		secret:   []byte(cfg.Secret),
		lifetime: cfg.Lifetime,
		now:      time.Now,
	}
}

// Issue creates a nonce for action on behalf of userID in sessionID
func (s *NonceService) Issue(action string, userID int64, sessionID string) (string, time.Time, error) {
	if action == "" {
		return "", time.Time{}, ErrInvalidNonce
	}
	now := s.now()
	expiresAt := now.Add(s.lifetime)
	claims := &nonceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    nonceIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Action:    action,
		UserID:    userID,
		SessionID: sessionID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks that nonce was issued by this service for exactly this
// action, user and session, and has not expired.
func (s *NonceService) Verify(nonce, action string, userID int64, sessionID string) error {
	if nonce == "" {
		return ErrInvalidNonce
	}
	token, err := jwt.ParseWithClaims(nonce, &nonceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidNonce
		}
		return s.secret, nil
	},
		jwt.WithIssuer(nonceIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredNonce
		}
		return ErrInvalidNonce
	}

	claims, ok := token.Claims.(*nonceClaims)
	if !ok || !token.Valid {
		return ErrInvalidNonce
	}
	if claims.Action != action || claims.UserID != userID || claims.SessionID != sessionID {
		return ErrInvalidNonce
	}
	return nil
}
