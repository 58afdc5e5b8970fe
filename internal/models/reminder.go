package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReminderType classifies what a reminder is about.
type ReminderType string

const (
	ReminderTypeBill         ReminderType = "BILL"
	ReminderTypeSubscription ReminderType = "SUBSCRIPTION"
	ReminderTypeCustom       ReminderType = "CUSTOM"
)

// Valid reports whether t is a supported reminder type.
func (t ReminderType) Valid() bool {
	switch t {
	case ReminderTypeBill, ReminderTypeSubscription, ReminderTypeCustom:
		return true
	}
	return false
}

// ReminderFrequency is how often a reminder repeats.
type ReminderFrequency string

const (
	FrequencyOnce    ReminderFrequency = "ONCE"
	FrequencyDaily   ReminderFrequency = "DAILY"
	FrequencyWeekly  ReminderFrequency = "WEEKLY"
	FrequencyMonthly ReminderFrequency = "MONTHLY"
	FrequencyYearly  ReminderFrequency = "YEARLY"
)

// Valid reports whether f is a supported frequency.
func (f ReminderFrequency) Valid() bool {
	switch f {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Reminder is a user-defined due date, typically a bill or subscription.
type Reminder struct {
	Base
	UserID       string              `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string              `gorm:"size:100;not null" json:"title"`
	Amount       decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"amount"`
	ReminderType ReminderType        `gorm:"size:15;not null" json:"reminder_type"`
	Frequency    ReminderFrequency   `gorm:"size:10;not null" json:"frequency"`
	DueDate      time.Time           `gorm:"not null;index" json:"due_date"`
	Description  string              `gorm:"type:text" json:"description"`
	IsActive     bool                `gorm:"not null" json:"is_active"`
}
