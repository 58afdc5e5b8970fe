package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finwise/internal/finance"
	"finwise/internal/models"
	"finwise/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.User, error)
}

// ProfileUpdate holds the optional profile fields a user may change.
type ProfileUpdate struct {
	FirstName            *string
	LastName             *string
	PreferredCurrency    *string
	MonthlyIncome        *decimal.Decimal
	NotificationsEnabled *bool
}

// CategoryUpdate holds optional category fields. Nil means unchanged.
type CategoryUpdate struct {
	Name      *string
	Icon      *string
	Color     *string
	IsExpense *bool
}

// CategoryServicer defines the contract for category-related business logic.
// Categories are shared by all users.
type CategoryServicer interface {
	CreateCategory(name, icon, color string, isExpense bool) (*models.Category, error)
	GetCategories(page pagination.PageRequest, isExpense *bool) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID string, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// TransactionInput carries the fields of a new transaction.
type TransactionInput struct {
	CategoryID  *string
	Type        models.TransactionType
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	ReceiptRef  *string
	IsRecurring bool
}

// TransactionUpdate holds optional transaction fields. Nil means unchanged.
type TransactionUpdate struct {
	CategoryID  *string
	Type        *models.TransactionType
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
	ReceiptRef  *string
	IsRecurring *bool
}

// CategoryTotal is the expense total of one category within a month.
type CategoryTotal struct {
	CategoryID   *string         `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// MonthlySummary aggregates a user's transactions for one calendar month.
type MonthlySummary struct {
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Net           decimal.Decimal `json:"net"`
	ByCategory    []CategoryTotal `json:"by_category"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetMonthlySummary(userID string, month, year int) (*MonthlySummary, error)
}

// BudgetView is a budget together with its status, recomputed on every read.
type BudgetView struct {
	models.Budget
	finance.BudgetStatus
}

// BudgetUpdate holds optional budget fields. Nil means unchanged.
type BudgetUpdate struct {
	CategoryID *string
	Amount     *decimal.Decimal
	Month      *int
	Year       *int
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, amount decimal.Decimal, month, year int) (*BudgetView, error)
	GetUserBudgets(userID string, page pagination.PageRequest, month, year *int) (*pagination.PageResponse[BudgetView], error)
	GetBudgetByID(userID, budgetID string) (*BudgetView, error)
	UpdateBudget(userID, budgetID string, update BudgetUpdate) (*BudgetView, error)
	DeleteBudget(userID, budgetID string) error
	ComputeBudgetStatus(userID, budgetID string) (*finance.BudgetStatus, error)
}

// SavingsGoalView is a savings goal with its derived progress.
type SavingsGoalView struct {
	models.SavingsGoal
	ProgressPercentage float64 `json:"progress_percentage"`
}

// SavingsGoalInput carries the fields of a new savings goal.
type SavingsGoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
	Icon         string
}

// SavingsGoalUpdate holds optional savings goal fields. Nil means unchanged.
type SavingsGoalUpdate struct {
	Name         *string
	TargetAmount *decimal.Decimal
	TargetDate   *time.Time
	Icon         *string
}

// SavingsGoalServicer defines the contract for savings goal business logic.
type SavingsGoalServicer interface {
	CreateSavingsGoal(userID string, in SavingsGoalInput) (*SavingsGoalView, error)
	GetUserSavingsGoals(userID string, page pagination.PageRequest, isCompleted *bool) (*pagination.PageResponse[SavingsGoalView], error)
	GetSavingsGoalByID(userID, goalID string) (*SavingsGoalView, error)
	UpdateSavingsGoal(userID, goalID string, update SavingsGoalUpdate) (*SavingsGoalView, error)
	DeleteSavingsGoal(userID, goalID string) error
	AddFunds(userID, goalID string, amount decimal.Decimal) (*SavingsGoalView, error)
}

// ReminderInput carries the fields of a new reminder.
type ReminderInput struct {
	Title        string
	Amount       decimal.NullDecimal
	ReminderType models.ReminderType
	Frequency    models.ReminderFrequency
	DueDate      time.Time
	Description  string
}

// ReminderUpdate holds optional reminder fields. Nil means unchanged.
type ReminderUpdate struct {
	Title        *string
	Amount       *decimal.Decimal
	ReminderType *models.ReminderType
	Frequency    *models.ReminderFrequency
	DueDate      *time.Time
	Description  *string
	IsActive     *bool
}

// ReminderServicer defines the contract for reminder business logic.
type ReminderServicer interface {
	CreateReminder(userID string, in ReminderInput) (*models.Reminder, error)
	GetUserReminders(userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Reminder], error)
	GetReminderByID(userID, reminderID string) (*models.Reminder, error)
	UpdateReminder(userID, reminderID string, update ReminderUpdate) (*models.Reminder, error)
	DeleteReminder(userID, reminderID string) error
}

// NotificationServicer defines the contract for the notification engine.
type NotificationServicer interface {
	// EvaluateTriggers runs the notification rules for event inside tx.
	// Notifications it creates commit or roll back with tx.
	EvaluateTriggers(tx *gorm.DB, event Event) error
	CreateSystemNotification(userID, title, message string) (*models.Notification, error)
	GetUserNotifications(userID string, page pagination.PageRequest, isRead *bool) (*pagination.PageResponse[models.Notification], error)
	GetNotificationByID(userID, notificationID string) (*models.Notification, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) (*models.Notification, error)
	MarkAllAsRead(userID string) (int64, error)
	ProcessDueReminders(now time.Time) (int, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
