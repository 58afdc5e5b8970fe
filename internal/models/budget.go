package models

import "github.com/shopspring/decimal"

// Budget is a monthly spending ceiling for one category. At most one
// non-deleted budget exists per (user, category, month, year).
type Budget struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;uniqueIndex:idx_budget_period,where:deleted_at IS NULL" json:"user_id"`
	CategoryID string          `gorm:"type:uuid;not null;uniqueIndex:idx_budget_period,where:deleted_at IS NULL" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Month      int             `gorm:"not null;uniqueIndex:idx_budget_period,where:deleted_at IS NULL" json:"month"`
	Year       int             `gorm:"not null;uniqueIndex:idx_budget_period,where:deleted_at IS NULL" json:"year"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
