package models

// NotificationType identifies which rule produced a notification.
type NotificationType string

const (
	NotificationTypeBillDue     NotificationType = "BILL_DUE"
	NotificationTypeBudgetLimit NotificationType = "BUDGET_LIMIT"
	NotificationTypeSavingGoal  NotificationType = "SAVING_GOAL"
	NotificationTypeSystem      NotificationType = "SYSTEM"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeBillDue, NotificationTypeBudgetLimit, NotificationTypeSavingGoal, NotificationTypeSystem:
		return true
	}
	return false
}

// Notification is a user-visible fact that requires attention.
type Notification struct {
	Base
	UserID           string           `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	Title            string           `gorm:"size:100;not null" json:"title"`
	Message          string           `gorm:"type:text;not null" json:"message"`
	NotificationType NotificationType `gorm:"size:15;not null" json:"notification_type"`
	IsRead           bool             `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
}

// NotificationMarker records that a fact has already been notified, so the
// same budget crossing or goal completion never fires twice. FactKey is
// unique per user.
type NotificationMarker struct {
	Base
	UserID         string `gorm:"type:uuid;not null;uniqueIndex:idx_marker_user_fact" json:"user_id"`
	FactKey        string `gorm:"size:200;not null;uniqueIndex:idx_marker_user_fact" json:"fact_key"`
	NotificationID string `gorm:"type:uuid;not null" json:"notification_id"`
}
