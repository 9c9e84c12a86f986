package identity

import "time"

// LoginInput contains the input for login
type LoginInput struct {
	Username string
	Password string
	IP       string // client IP, logged only
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	SessionID   string
	User        UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          int64
	Username    string
	DisplayName string
	Email       string
	Roles       []string
}

// LogoutInput identifies the session token to revoke
type LogoutInput struct {
	UserID   int64
	TokenJTI string
	// TTL is how long the token would otherwise stay valid
	TTL time.Duration
}
