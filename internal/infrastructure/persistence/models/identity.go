package models

import (
	"sort"
	"time"

	"github.com/coursebridge/backend/internal/domain/identity"
)

// UserModel is the persistence model for a site account
type UserModel struct {
	BaseModel
	Username     string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string          `gorm:"type:varchar(200)"`
	DisplayName  string          `gorm:"type:varchar(200)"`
	PasswordHash string          `gorm:"type:varchar(255);not null"`
	Status       string          `gorm:"type:varchar(20);not null"`
	LastLoginAt  *time.Time
	Roles        []UserRoleModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// UserRoleModel assigns one site role to a user
type UserRoleModel struct {
	UserID int64  `gorm:"primaryKey;autoIncrement:false"`
	Role   string `gorm:"primaryKey;type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	roles := make([]identity.Role, 0, len(m.Roles))
	for _, r := range m.Roles {
		roles = append(roles, identity.ParseRole(r.Role))
	}
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		Email:        m.Email,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		Status:       identity.UserStatus(m.Status),
		Roles:        identity.NewRoleSet(roles...),
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.Email = u.Email
	m.DisplayName = u.DisplayName
	m.PasswordHash = u.PasswordHash
	m.Status = string(u.Status)
	m.LastLoginAt = u.LastLoginAt

	names := u.Roles.Strings()
	sort.Strings(names)
	m.Roles = make([]UserRoleModel, 0, len(names))
	for _, name := range names {
		m.Roles = append(m.Roles, UserRoleModel{UserID: u.ID, Role: name})
	}
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
