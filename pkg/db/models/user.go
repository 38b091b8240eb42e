package models

import (
	"time"

	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email             string           `gorm:"type:text;not null;uniqueIndex:users_email_key"`
	PasswordHash      string           `gorm:"column:password_hash;not null"`
	FirstName         string           `gorm:"column:first_name;not null"`
	LastName          string           `gorm:"column:last_name;not null"`
	Phone             *string          `gorm:"column:phone"`
	Role              enums.MemberRole `gorm:"column:role;type:text;not null"`
	PreferredCurrency string           `gorm:"column:preferred_currency;type:text;not null;default:'EUR'"`
	IsActive          bool             `gorm:"column:is_active;not null;default:true"`
	LastLoginAt       *time.Time       `gorm:"column:last_login_at"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
