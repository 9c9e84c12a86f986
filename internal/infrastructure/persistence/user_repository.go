package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/coursebridge/backend/internal/domain/identity"
	"github.com/coursebridge/backend/internal/domain/shared"
	"github.com/coursebridge/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID with roles loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername finds a user by username (case-insensitive)
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return r.findOne(ctx, "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, args ...any) (*identity.User, error) {
	var model models.UserModel
	err := conn(ctx, r.db).Preload("Roles").Where(query, args...).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.WrapDomainError(shared.CodePersistenceError, "Failed to load user", err)
	}
	return model.ToDomain(), nil
}

// HasRole checks a single role assignment
func (r *GormUserRepository) HasRole(ctx context.Context, userID int64, role identity.Role) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&models.UserRoleModel{}).
		Where("user_id = ? AND role = ?", userID, string(role)).
		Count(&count).Error
	if err != nil {
		return false, shared.WrapDomainError(shared.CodePersistenceError, "Failed to check role", err)
	}
	return count > 0, nil
}

// Create creates a new user together with its role rows
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return shared.WrapDomainError(shared.CodePersistenceError, "Failed to create user", err)
	}
	user.ID = model.ID
	return nil
}

// UpdateLastLogin persists the user's last login time
func (r *GormUserRepository) UpdateLastLogin(ctx context.Context, user *identity.User) error {
	result := conn(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"last_login_at": user.LastLoginAt,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return shared.WrapDomainError(shared.CodePersistenceError, "Failed to update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
