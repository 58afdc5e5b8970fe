package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finwise/internal/errors"
	"finwise/internal/finance"
	"finwise/internal/models"
	"finwise/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db                  *gorm.DB
	notificationService NotificationServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, notificationService NotificationServicer) BudgetServicer {
	return &budgetService{
		db:                  db,
		notificationService: notificationService,
	}
}

// CreateBudget creates a monthly budget for a category. A second budget for
// the same (user, category, month, year) fails with ErrBudgetAlreadyExists;
// the unique index decides concurrent attempts. Spending already recorded
// for the period is checked against the new ceiling.
func (s *budgetService) CreateBudget(userID, categoryID string, amount decimal.Decimal, month, year int) (*BudgetView, error) {
	if err := validateBudgetFields(amount, month, year); err != nil {
		return nil, err
	}

	if _, err := findCategory(s.db, categoryID); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Month:      month,
		Year:       year,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrBudgetAlreadyExists
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.notificationService.EvaluateTriggers(tx, BudgetChanged{Budget: budget})
	})
	if err != nil {
		return nil, err
	}

	return s.GetBudgetByID(userID, budget.ID)
}

// GetUserBudgets returns a paginated list of budgets for the user, each with
// its current status. month and year filter when set.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, month, year *int) (*pagination.PageResponse[BudgetView], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if month != nil {
		base = base.Where("month = ?", *month)
	}
	if year != nil {
		base = base.Where("year = ?", *year)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").
		Order("year DESC, month DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		status, err := budgetStatus(s.db, &b)
		if err != nil {
			return nil, err
		}
		views = append(views, BudgetView{Budget: b, BudgetStatus: status})
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget with its status if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*BudgetView, error) {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}
	status, err := budgetStatus(s.db, budget)
	if err != nil {
		return nil, err
	}
	return &BudgetView{Budget: *budget, BudgetStatus: status}, nil
}

func (s *budgetService) findBudget(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields. Moving a budget onto a
// period that already has one fails with ErrBudgetAlreadyExists. Alerts are
// re-evaluated for the resulting amount and period.
func (s *budgetService) UpdateBudget(userID, budgetID string, update BudgetUpdate) (*BudgetView, error) {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	amount, month, year := budget.Amount, budget.Month, budget.Year
	if update.Amount != nil {
		amount = *update.Amount
	}
	if update.Month != nil {
		month = *update.Month
	}
	if update.Year != nil {
		year = *update.Year
	}
	if err := validateBudgetFields(amount, month, year); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"amount": amount,
		"month":  month,
		"year":   year,
	}
	if update.CategoryID != nil && *update.CategoryID != budget.CategoryID {
		if _, err := findCategory(s.db, *update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Budget{}).Where("id = ? AND user_id = ?", budgetID, userID).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrBudgetAlreadyExists
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.notificationService.EvaluateTriggers(tx, BudgetChanged{Budget: budget})
	})
	if err != nil {
		return nil, err
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ComputeBudgetStatus recomputes spent, remaining and percentage used for
// the budget's month from the owner's expense transactions.
func (s *budgetService) ComputeBudgetStatus(userID, budgetID string) (*finance.BudgetStatus, error) {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}
	status, err := budgetStatus(s.db, budget)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func validateBudgetFields(amount decimal.Decimal, month, year int) error {
	if amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be between 1 and 9999")
	}
	return nil
}

// budgetStatus computes the status of budget using db, which may be a
// transaction handle.
func budgetStatus(db *gorm.DB, budget *models.Budget) (finance.BudgetStatus, error) {
	spent, err := budgetSpent(db, budget.UserID, budget.CategoryID, budget.Month, budget.Year)
	if err != nil {
		return finance.BudgetStatus{}, err
	}
	return finance.ComputeBudgetStatus(budget.Amount, spent), nil
}

// budgetSpent sums the user's expense transactions in a category for one
// calendar month. No matching rows yields zero.
func budgetSpent(db *gorm.DB, userID, categoryID string, month, year int) (decimal.Decimal, error) {
	start, end := finance.MonthRange(month, year)

	var result struct {
		Total decimal.Decimal
	}
	err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND category_id = ? AND transaction_type = ? AND date >= ? AND date < ?",
			userID, categoryID, models.TransactionTypeExpense, start, end).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result.Total.Round(2), nil
}
