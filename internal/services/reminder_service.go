package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finwise/internal/errors"
	"finwise/internal/models"
	"finwise/internal/pagination"
)

// reminderService handles reminder business logic.
type reminderService struct {
	db *gorm.DB
}

// NewReminderService creates a new ReminderServicer.
func NewReminderService(db *gorm.DB) ReminderServicer {
	return &reminderService{db: db}
}

// CreateReminder creates an active reminder.
func (s *reminderService) CreateReminder(userID string, in ReminderInput) (*models.Reminder, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if !in.ReminderType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported reminder type")
	}
	if !in.Frequency.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported frequency")
	}
	if in.DueDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due date is required")
	}
	if in.Amount.Valid {
		if in.Amount.Decimal.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
		}
		if err := validateAmount(in.Amount.Decimal); err != nil {
			return nil, err
		}
	}

	reminder := &models.Reminder{
		UserID:       userID,
		Title:        title,
		Amount:       in.Amount,
		ReminderType: in.ReminderType,
		Frequency:    in.Frequency,
		DueDate:      models.DateOnly(in.DueDate),
		Description:  in.Description,
		IsActive:     true,
	}
	if err := s.db.Create(reminder).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reminder, nil
}

// GetUserReminders lists the user's reminders by due date.
func (s *reminderService) GetUserReminders(userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Reminder], error) {
	page.Defaults()

	base := s.db.Model(&models.Reminder{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var reminders []models.Reminder
	if err := base.Order("due_date ASC").Scopes(pagination.Paginate(page)).Find(&reminders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(reminders, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetReminderByID returns a reminder if it belongs to the user.
func (s *reminderService) GetReminderByID(userID, reminderID string) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := s.db.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReminderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &reminder, nil
}

// UpdateReminder applies the non-nil fields of update.
func (s *reminderService) UpdateReminder(userID, reminderID string, update ReminderUpdate) (*models.Reminder, error) {
	if _, err := s.GetReminderByID(userID, reminderID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title cannot be empty")
		}
		updates["title"] = title
	}
	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
		}
		if err := validateAmount(*update.Amount); err != nil {
			return nil, err
		}
		updates["amount"] = decimal.NewNullDecimal(*update.Amount)
	}
	if update.ReminderType != nil {
		if !update.ReminderType.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported reminder type")
		}
		updates["reminder_type"] = *update.ReminderType
	}
	if update.Frequency != nil {
		if !update.Frequency.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported frequency")
		}
		updates["frequency"] = *update.Frequency
	}
	if update.DueDate != nil {
		updates["due_date"] = models.DateOnly(*update.DueDate)
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Reminder{}).
			Where("id = ? AND user_id = ?", reminderID, userID).
			Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetReminderByID(userID, reminderID)
}

// DeleteReminder soft-deletes a reminder.
func (s *reminderService) DeleteReminder(userID, reminderID string) error {
	reminder, err := s.GetReminderByID(userID, reminderID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(reminder).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
