package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finwise/internal/errors"
	"finwise/internal/logger"
	"finwise/internal/services"
)

// PipelineHandler serves machine-to-machine endpoints called by the
// scheduler and operator tooling. Routes are guarded by API key, not JWT.
type PipelineHandler struct {
	notificationService services.NotificationServicer
	now                 func() time.Time
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(notificationService services.NotificationServicer) *PipelineHandler {
	return &PipelineHandler{notificationService: notificationService, now: time.Now}
}

// SystemNotificationRequest is the payload for an operator broadcast to one user.
type SystemNotificationRequest struct {
	UserID  string `json:"user_id" binding:"required,uuid"`
	Title   string `json:"title" binding:"required,min=1,max=100"`
	Message string `json:"message" binding:"required"`
}

// ProcessRemindersResponse reports how many reminder notifications were created.
type ProcessRemindersResponse struct {
	Created int `json:"created"`
}

// ProcessReminders runs the due-reminder sweep.
// @Summary     Process due reminders
// @Description Create BILL_DUE notifications for active reminders that are due and advance recurring ones
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} ProcessRemindersResponse "Number of notifications created"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/reminders/process [post]
func (h *PipelineHandler) ProcessReminders(c *gin.Context) {
	created, err := h.notificationService.ProcessDueReminders(h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Named("pipeline").Infow("Processed due reminders", "created", created)
	c.JSON(http.StatusOK, ProcessRemindersResponse{Created: created})
}

// CreateSystemNotification sends a SYSTEM notification to a user.
// @Summary     Send system notification
// @Description Create a SYSTEM notification for a user regardless of their notification preference
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body SystemNotificationRequest true "Notification content"
// @Success     201 {object} models.Notification "Notification created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/notifications [post]
func (h *PipelineHandler) CreateSystemNotification(c *gin.Context) {
	var req SystemNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	notification, err := h.notificationService.CreateSystemNotification(req.UserID, req.Title, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification": notification})
}
