package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents the user model in the database
type User struct {
	Base
	Email                string          `gorm:"uniqueIndex;not null" json:"email"`
	Password             string          `gorm:"not null" json:"-"`
	FirstName            string          `json:"first_name"`
	LastName             string          `json:"last_name"`
	IsActive             bool            `gorm:"not null" json:"is_active"`
	PreferredCurrency    string          `gorm:"size:3;not null" json:"preferred_currency"`
	MonthlyIncome        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_income"`
	NotificationsEnabled bool            `gorm:"not null" json:"notifications_enabled"`
	RefreshTokenHash     string          `gorm:"size:64" json:"-"`
	FailedLoginAttempts  int             `gorm:"default:0" json:"-"`
	LockedUntil          *time.Time      `json:"-"`
	LastLoginAt          *time.Time      `json:"last_login_at,omitempty"`
}
