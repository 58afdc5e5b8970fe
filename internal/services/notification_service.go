package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "finwise/internal/errors"
	"finwise/internal/finance"
	"finwise/internal/logger"
	"finwise/internal/models"
	"finwise/internal/pagination"
)

const maxTitleLength = 100

// DefaultBudgetAlertThresholds fires a single alert when a budget is fully used.
var DefaultBudgetAlertThresholds = []float64{100}

// notificationService decides when notifications fire and manages their
// read state.
type notificationService struct {
	db         *gorm.DB
	thresholds []float64
	leadDays   int
	log        *zap.SugaredLogger
}

// NewNotificationService creates a new NotificationServicer. thresholds are
// the budget usage percentages that raise BUDGET_LIMIT alerts; leadDays is
// how many days before its due date a reminder fires.
func NewNotificationService(db *gorm.DB, thresholds []float64, leadDays int) NotificationServicer {
	if len(thresholds) == 0 {
		thresholds = DefaultBudgetAlertThresholds
	}
	if leadDays < 0 {
		leadDays = 0
	}
	return &notificationService{
		db:         db,
		thresholds: thresholds,
		leadDays:   leadDays,
		log:        logger.Named("notifications"),
	}
}

// EvaluateTriggers runs the notification rules for event inside tx.
func (s *notificationService) EvaluateTriggers(tx *gorm.DB, event Event) error {
	_, err := s.evaluate(tx, event)
	return err
}

// evaluate returns the number of notifications created for event.
func (s *notificationService) evaluate(tx *gorm.DB, event Event) (int, error) {
	if event == nil || !event.relevant() {
		return 0, nil
	}
	if ok, err := notificationsEnabled(tx, event.ownerID()); err != nil || !ok {
		return 0, err
	}

	switch e := event.(type) {
	case TransactionCreated:
		t := e.Transaction
		return s.budgetAlerts(tx, func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ? AND category_id = ? AND month = ? AND year = ?",
				t.UserID, *t.CategoryID, int(t.Date.Month()), t.Date.Year())
		})
	case BudgetChanged:
		b := e.Budget
		return s.budgetAlerts(tx, func(db *gorm.DB) *gorm.DB {
			return db.Where("id = ? AND user_id = ?", b.ID, b.UserID)
		})
	case FundsAdded:
		return s.goalReached(tx, e.Goal)
	case ReminderDue:
		return s.reminderDue(tx, e.Reminder)
	}
	return 0, nil
}

// budgetAlerts emits one BUDGET_LIMIT notification per configured threshold
// the budget selected by match has reached, at most once per budget, month
// and threshold.
func (s *notificationService) budgetAlerts(tx *gorm.DB, match func(*gorm.DB) *gorm.DB) (int, error) {
	var budget models.Budget
	err := tx.Scopes(match).Preload("Category").First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	month, year := budget.Month, budget.Year

	status, err := budgetStatus(tx, &budget)
	if err != nil {
		return 0, err
	}

	name := "this category"
	if budget.Category != nil {
		name = budget.Category.Name
	}

	created := 0
	for _, threshold := range finance.ReachedThresholds(budget.Amount, status.SpentAmount, s.thresholds) {
		title := "Budget Limit Reached"
		if threshold < 100 {
			title = fmt.Sprintf("Budget %s%% Used", formatThreshold(threshold))
		}
		n := &models.Notification{
			UserID: budget.UserID,
			Title:  title,
			Message: fmt.Sprintf("You have spent %s of your %s budget for %s in %04d-%02d (%.2f%%).",
				status.SpentAmount.StringFixed(2), budget.Amount.StringFixed(2), name, year, month, status.PercentageUsed),
			NotificationType: models.NotificationTypeBudgetLimit,
		}
		key := fmt.Sprintf("budget:%s:%04d-%02d:%s", budget.ID, year, month, formatThreshold(threshold))
		ok, err := s.emitOnce(tx, key, n)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *notificationService) goalReached(tx *gorm.DB, goal *models.SavingsGoal) (int, error) {
	n := &models.Notification{
		UserID: goal.UserID,
		Title:  "Saving Goal Achieved",
		Message: fmt.Sprintf("Congratulations! You reached your savings goal %q of %s.",
			goal.Name, goal.TargetAmount.StringFixed(2)),
		NotificationType: models.NotificationTypeSavingGoal,
	}
	ok, err := s.emitOnce(tx, "goal:"+goal.ID, n)
	if err != nil || !ok {
		return 0, err
	}
	return 1, nil
}

func (s *notificationService) reminderDue(tx *gorm.DB, r *models.Reminder) (int, error) {
	due := models.DateOnly(r.DueDate).Format("2006-01-02")
	message := fmt.Sprintf("%s is due on %s.", r.Title, due)
	if r.Amount.Valid {
		message = fmt.Sprintf("%s of %s is due on %s.", r.Title, r.Amount.Decimal.StringFixed(2), due)
	}

	n := &models.Notification{
		UserID:           r.UserID,
		Title:            truncate(reminderLabel(r.ReminderType)+": "+r.Title, maxTitleLength),
		Message:          message,
		NotificationType: models.NotificationTypeBillDue,
	}
	ok, err := s.emitOnce(tx, fmt.Sprintf("reminder:%s:%s", r.ID, due), n)
	if err != nil || !ok {
		return 0, err
	}
	return 1, nil
}

// emitOnce stores n together with a marker for factKey. If the marker
// already exists the fact was notified before and nothing is stored. The
// insert runs in a savepoint so a lost race does not abort tx.
func (s *notificationService) emitOnce(tx *gorm.DB, factKey string, n *models.Notification) (bool, error) {
	var existing int64
	if err := tx.Model(&models.NotificationMarker{}).
		Where("user_id = ? AND fact_key = ?", n.UserID, factKey).
		Count(&existing).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing > 0 {
		return false, nil
	}

	err := tx.Transaction(func(sp *gorm.DB) error {
		if err := sp.Create(n).Error; err != nil {
			return err
		}
		return sp.Create(&models.NotificationMarker{
			UserID:         n.UserID,
			FactKey:        factKey,
			NotificationID: n.ID,
		}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.log.Infow("notification created",
		"user_id", n.UserID,
		"notification_id", n.ID,
		"type", n.NotificationType,
		"fact", factKey,
	)
	return true, nil
}

// CreateSystemNotification sends an operator message to a user. It is not
// subject to the user's notification preference.
func (s *notificationService) CreateSystemNotification(userID, title, message string) (*models.Notification, error) {
	if title == "" || message == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title and message are required")
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title must be at most 100 characters")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	n := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: models.NotificationTypeSystem,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return n, nil
}

// GetUserNotifications returns the user's notifications, newest first.
func (s *notificationService) GetUserNotifications(userID string, page pagination.PageRequest, isRead *bool) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if isRead != nil {
		base = base.Where("is_read = ?", *isRead)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetNotificationByID returns a notification if it belongs to the user.
func (s *notificationService) GetNotificationByID(userID, notificationID string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &n, nil
}

// GetUnreadCount returns how many of the user's notifications are unread.
func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// MarkAsRead marks one notification read. Marking a read notification again
// is a no-op.
func (s *notificationService) MarkAsRead(userID, notificationID string) (*models.Notification, error) {
	n, err := s.GetNotificationByID(userID, notificationID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	if err := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	n.IsRead = true
	return n, nil
}

// MarkAllAsRead marks every unread notification of the user read in one
// statement and returns how many changed.
func (s *notificationService) MarkAllAsRead(userID string) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// ProcessDueReminders raises ReminderDue for every active reminder due on or
// before now plus the lead window. Repeating reminders whose due date has
// arrived then move to their next occurrence after today; one-time reminders
// stay and their marker keeps them from firing twice. A reminder that fails
// is logged and skipped so the rest of the sweep still runs; the failures
// are returned joined together with the number of notifications created.
func (s *notificationService) ProcessDueReminders(now time.Time) (int, error) {
	today := models.DateOnly(now)
	horizon := today.AddDate(0, 0, s.leadDays)

	var reminders []models.Reminder
	if err := s.db.Where("is_active = ? AND due_date <= ?", true, horizon).
		Order("due_date ASC").
		Find(&reminders).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := 0
	var errs []error
	for i := range reminders {
		r := &reminders[i]
		if !finance.IsDue(r.DueDate, today, s.leadDays) {
			continue
		}
		var n int
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			if n, err = s.evaluate(tx, ReminderDue{Reminder: r}); err != nil {
				return err
			}
			next, ok := finance.NextDueDate(r.Frequency, r.DueDate, today)
			if !ok || next.Equal(models.DateOnly(r.DueDate)) {
				return nil
			}
			if err := tx.Model(&models.Reminder{}).Where("id = ?", r.ID).Update("due_date", next).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		})
		if err != nil {
			s.log.Errorw("failed to process reminder", "reminder_id", r.ID, "error", err)
			errs = append(errs, fmt.Errorf("reminder %s: %w", r.ID, err))
			continue
		}
		created += n
	}

	s.log.Infow("processed due reminders",
		"date", today.Format("2006-01-02"),
		"due", len(reminders),
		"failed", len(errs),
		"notifications_created", created,
	)
	return created, errors.Join(errs...)
}

// notificationsEnabled reports the user's automatic notification preference.
func notificationsEnabled(db *gorm.DB, userID string) (bool, error) {
	var user models.User
	err := db.Select("id", "notifications_enabled").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user.NotificationsEnabled, nil
}

func reminderLabel(t models.ReminderType) string {
	switch t {
	case models.ReminderTypeBill:
		return "Bill Due"
	case models.ReminderTypeSubscription:
		return "Subscription Renewal"
	default:
		return "Reminder"
	}
}

// formatThreshold renders 100 as "100" and 90.5 as "90.5".
func formatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
