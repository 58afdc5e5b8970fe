package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "EXPENSE"
	TransactionTypeIncome  TransactionType = "INCOME"
)

// Valid reports whether t is a supported transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// Transaction represents a single income or expense entry owned by one user.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index:idx_transactions_user_date" json:"user_id"`
	CategoryID  *string         `gorm:"type:uuid;index" json:"category_id"`
	Type        TransactionType `gorm:"column:transaction_type;size:7;not null" json:"transaction_type"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index:idx_transactions_user_date" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	ReceiptRef  *string         `gorm:"size:255" json:"receipt,omitempty"`
	IsRecurring bool            `gorm:"not null" json:"is_recurring"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
