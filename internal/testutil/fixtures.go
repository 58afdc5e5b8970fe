package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finwise/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Amount parses a decimal literal such as "150.00", failing the test on bad input.
func Amount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
// Notifications are enabled.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:                email,
		Password:             string(hash),
		IsActive:             true,
		PreferredCurrency:    "USD",
		NotificationsEnabled: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a shared category.
func CreateTestCategory(t *testing.T, db *gorm.DB, isExpense bool) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      fmt.Sprintf("Test Category %d", nextID()),
		Color:     models.DefaultCategoryColor,
		IsExpense: isExpense,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts a transaction directly, bypassing notification triggers.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, categoryID *string, txType models.TransactionType, amount decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       models.DateOnly(date),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget for the given category and period.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID string, amount decimal.Decimal, month, year int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Month:      month,
		Year:       year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestSavingsGoal creates an empty savings goal with the given target.
func CreateTestSavingsGoal(t *testing.T, db *gorm.DB, userID string, target decimal.Decimal) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test savings goal: %v", err)
	}
	return goal
}

// CreateTestReminder creates an active bill reminder.
func CreateTestReminder(t *testing.T, db *gorm.DB, userID string, freq models.ReminderFrequency, due time.Time) *models.Reminder {
	t.Helper()

	reminder := &models.Reminder{
		UserID:       userID,
		Title:        fmt.Sprintf("Test Reminder %d", nextID()),
		ReminderType: models.ReminderTypeBill,
		Frequency:    freq,
		DueDate:      models.DateOnly(due),
		IsActive:     true,
	}
	if err := db.Create(reminder).Error; err != nil {
		t.Fatalf("failed to create test reminder: %v", err)
	}
	return reminder
}

// CreateTestNotification creates a SYSTEM notification.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string, isRead bool) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:           userID,
		Title:            fmt.Sprintf("Test Notification %d", nextID()),
		Message:          "test message",
		NotificationType: models.NotificationTypeSystem,
		IsRead:           isRead,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
