package models

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/users"
)

// UserModel is the GORM database model for accounts
type UserModel struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string    `gorm:"type:varchar(254);not null;uniqueIndex"`
	FirstName    string    `gorm:"type:varchar(150);not null;default:''"`
	LastName     string    `gorm:"type:varchar(150);not null;default:''"`
	PasswordHash string    `gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts GORM model to domain entity
func (m *UserModel) ToDomain() *users.User {
	return &users.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *UserModel) FromDomain(u *users.User) {
	m.ID = u.ID
	m.Username = u.Username
	m.Email = u.Email
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.PasswordHash = u.PasswordHash
	m.CreatedAt = u.CreatedAt
}
