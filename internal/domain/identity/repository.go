package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID returns shared.ErrNotFound when the user does not exist
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// HasRole checks a role without loading the whole user
	HasRole(ctx context.Context, userID int64, role Role) (bool, error)
	Create(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, user *User) error
}
