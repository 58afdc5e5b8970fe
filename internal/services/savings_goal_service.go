package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finwise/internal/errors"
	"finwise/internal/finance"
	"finwise/internal/models"
	"finwise/internal/pagination"
)

// savingsGoalService handles savings goal business logic.
type savingsGoalService struct {
	db                  *gorm.DB
	notificationService NotificationServicer
}

// NewSavingsGoalService creates a new SavingsGoalServicer.
func NewSavingsGoalService(db *gorm.DB, notificationService NotificationServicer) SavingsGoalServicer {
	return &savingsGoalService{
		db:                  db,
		notificationService: notificationService,
	}
}

func newSavingsGoalView(goal models.SavingsGoal) *SavingsGoalView {
	return &SavingsGoalView{
		SavingsGoal:        goal,
		ProgressPercentage: finance.ProgressPercentage(goal.CurrentAmount, goal.TargetAmount),
	}
}

// CreateSavingsGoal creates an empty savings goal.
func (s *savingsGoalService) CreateSavingsGoal(userID string, in SavingsGoalInput) (*SavingsGoalView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !in.TargetAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if err := validateAmount(in.TargetAmount); err != nil {
		return nil, err
	}

	goal := models.SavingsGoal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Icon:          in.Icon,
	}
	if in.TargetDate != nil {
		d := models.DateOnly(*in.TargetDate)
		goal.TargetDate = &d
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return newSavingsGoalView(goal), nil
}

// GetUserSavingsGoals lists the user's goals, optionally by completion state.
func (s *savingsGoalService) GetUserSavingsGoals(userID string, page pagination.PageRequest, isCompleted *bool) (*pagination.PageResponse[SavingsGoalView], error) {
	page.Defaults()

	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)
	if isCompleted != nil {
		base = base.Where("is_completed = ?", *isCompleted)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]SavingsGoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, *newSavingsGoalView(g))
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSavingsGoalByID returns a goal if it belongs to the user.
func (s *savingsGoalService) GetSavingsGoalByID(userID, goalID string) (*SavingsGoalView, error) {
	goal, err := findSavingsGoal(s.db, userID, goalID)
	if err != nil {
		return nil, err
	}
	return newSavingsGoalView(*goal), nil
}

func findSavingsGoal(db *gorm.DB, userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSavingsGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateSavingsGoal changes a goal's descriptive fields and target. The
// saved amount and completion state only change through AddFunds.
func (s *savingsGoalService) UpdateSavingsGoal(userID, goalID string, update SavingsGoalUpdate) (*SavingsGoalView, error) {
	goal, err := findSavingsGoal(s.db, userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
		}
		updates["name"] = name
	}
	if update.TargetAmount != nil {
		if !update.TargetAmount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		if err := validateAmount(*update.TargetAmount); err != nil {
			return nil, err
		}
		updates["target_amount"] = *update.TargetAmount
	}
	if update.TargetDate != nil {
		updates["target_date"] = models.DateOnly(*update.TargetDate)
	}
	if update.Icon != nil {
		updates["icon"] = *update.Icon
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.SavingsGoal{}).Where("id = ? AND user_id = ?", goal.ID, userID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetSavingsGoalByID(userID, goalID)
}

// DeleteSavingsGoal soft-deletes a goal.
func (s *savingsGoalService) DeleteSavingsGoal(userID, goalID string) error {
	goal, err := findSavingsGoal(s.db, userID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddFunds adds amount to the goal's saved amount. The increment is done in
// SQL so concurrent calls never lose an update, and the completion flag is
// set with a conditional update so exactly one call observes the goal
// becoming complete.
func (s *savingsGoalService) AddFunds(userID, goalID string, amount decimal.Decimal) (*SavingsGoalView, error) {
	if err := finance.ValidateFunds(amount); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	var goal *models.SavingsGoal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := findSavingsGoal(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID, goalID)
		if err != nil {
			return err
		}
		if locked.CurrentAmount.Add(amount).GreaterThan(finance.MaxMoney) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, finance.ErrMoneyRange.Error())
		}

		if err := tx.Model(&models.SavingsGoal{}).
			Where("id = ? AND user_id = ?", goalID, userID).
			Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if goal, err = findSavingsGoal(tx, userID, goalID); err != nil {
			return err
		}

		completed := false
		if !goal.IsCompleted && finance.GoalReached(goal.CurrentAmount, goal.TargetAmount) {
			result := tx.Model(&models.SavingsGoal{}).
				Where("id = ? AND is_completed = ?", goalID, false).
				Update("is_completed", true)
			if result.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
			}
			completed = result.RowsAffected == 1
			goal.IsCompleted = true
		}

		return s.notificationService.EvaluateTriggers(tx, FundsAdded{Goal: goal, Completed: completed})
	})
	if err != nil {
		return nil, err
	}

	return newSavingsGoalView(*goal), nil
}
