package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal tracks progress toward a target amount. CurrentAmount only
// grows through the add-funds operation and IsCompleted never flips back.
type SavingsGoal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date,omitempty"`
	Icon          string          `gorm:"size:50" json:"icon"`
	IsCompleted   bool            `gorm:"not null" json:"is_completed"`
}
