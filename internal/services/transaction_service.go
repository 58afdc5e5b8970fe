package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finwise/internal/errors"
	"finwise/internal/finance"
	"finwise/internal/models"
	"finwise/internal/pagination"
)

const uncategorizedName = "Uncategorized"

// transactionService handles transaction-related business logic.
type transactionService struct {
	db                  *gorm.DB
	notificationService NotificationServicer
}

// NewTransactionService creates a new TransactionServicer. Every write runs
// the notification triggers in the same database transaction.
func NewTransactionService(db *gorm.DB, notificationService NotificationServicer) TransactionServicer {
	return &transactionService{
		db:                  db,
		notificationService: notificationService,
	}
}

// CreateTransaction records an income or expense for the user.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if in.CategoryID != nil {
		if _, err := findCategory(s.db, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	// Default date to today if not provided
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      in.Amount,
		Date:        models.DateOnly(date),
		Description: in.Description,
		ReceiptRef:  in.ReceiptRef,
		IsRecurring: in.IsRecurring,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.notificationService.EvaluateTriggers(tx, TransactionCreated{Transaction: transaction})
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(userID, transaction.ID)
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", models.DateOnly(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", models.DateOnly(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("transaction_type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction changes a transaction and re-runs the budget triggers
// for its resulting state.
func (s *transactionService) UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		if !update.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		if err := validateAmount(*update.Amount); err != nil {
			return nil, err
		}
		updates["amount"] = *update.Amount
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return nil, apperrors.ErrInvalidTransactionType
		}
		updates["transaction_type"] = *update.Type
	}
	if update.CategoryID != nil {
		if _, err := findCategory(s.db, *update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}
	if update.Date != nil {
		updates["date"] = models.DateOnly(*update.Date)
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.ReceiptRef != nil {
		updates["receipt_ref"] = *update.ReceiptRef
	}
	if update.IsRecurring != nil {
		updates["is_recurring"] = *update.IsRecurring
	}

	if len(updates) == 0 {
		return transaction, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ?", transactionID, userID).
			Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var current models.Transaction
		if err := tx.Where("id = ?", transactionID).First(&current).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.notificationService.EvaluateTriggers(tx, TransactionCreated{Transaction: &current})
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction soft-deletes a transaction. Notifications already sent
// for it are kept.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMonthlySummary totals the user's income and expenses for a calendar
// month and breaks expenses down by category.
func (s *transactionService) GetMonthlySummary(userID string, month, year int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be between 1 and 9999")
	}
	start, end := finance.MonthRange(month, year)

	var totals []struct {
		TransactionType models.TransactionType
		Total           decimal.Decimal
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("transaction_type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("transaction_type").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &MonthlySummary{
		Month:         month,
		Year:          year,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		ByCategory:    []CategoryTotal{},
	}
	for _, row := range totals {
		switch row.TransactionType {
		case models.TransactionTypeIncome:
			summary.TotalIncome = row.Total.Round(2)
		case models.TransactionTypeExpense:
			summary.TotalExpenses = row.Total.Round(2)
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)

	var byCategory []CategoryTotal
	if err := s.db.Table("transactions").
		Select("transactions.category_id, COALESCE(categories.name, '') AS category_name, SUM(transactions.amount) AS total").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.transaction_type = ? AND transactions.date >= ? AND transactions.date < ? AND transactions.deleted_at IS NULL",
			userID, models.TransactionTypeExpense, start, end).
		Group("transactions.category_id, categories.name").
		Order("total DESC").
		Scan(&byCategory).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, row := range byCategory {
		if row.CategoryID == nil || row.CategoryName == "" {
			row.CategoryName = uncategorizedName
		}
		row.Total = row.Total.Round(2)
		summary.ByCategory = append(summary.ByCategory, row)
	}

	return summary, nil
}

// validateAmount rejects amounts the NUMERIC(12,2) columns would round or
// overflow.
func validateAmount(d decimal.Decimal) error {
	if err := finance.ValidateMoney(d); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}
