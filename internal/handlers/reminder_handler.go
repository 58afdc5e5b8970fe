package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finwise/internal/errors"
	"finwise/internal/models"
	"finwise/internal/pagination"
	"finwise/internal/services"
)

// ReminderHandler handles bill and subscription reminder requests.
type ReminderHandler struct {
	reminderService services.ReminderServicer
	auditService    services.AuditServicer
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService services.ReminderServicer, auditService services.AuditServicer) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService, auditService: auditService}
}

// CreateReminderRequest represents the request payload for creating a reminder.
type CreateReminderRequest struct {
	Title        string                   `json:"title" binding:"required,min=1,max=100"`
	Amount       *decimal.Decimal         `json:"amount" swaggertype:"string" example:"15.99"`
	ReminderType models.ReminderType      `json:"reminder_type" binding:"required,reminder_type"`
	Frequency    models.ReminderFrequency `json:"frequency" binding:"required,reminder_frequency"`
	DueDate      string                   `json:"due_date" binding:"required" example:"2024-03-15"`
	Description  string                   `json:"description"`
}

// UpdateReminderRequest represents the request payload for updating a reminder.
type UpdateReminderRequest struct {
	Title        *string                   `json:"title" binding:"omitempty,min=1,max=100"`
	Amount       *decimal.Decimal          `json:"amount" swaggertype:"string"`
	ReminderType *models.ReminderType      `json:"reminder_type" binding:"omitempty,reminder_type"`
	Frequency    *models.ReminderFrequency `json:"frequency" binding:"omitempty,reminder_frequency"`
	DueDate      *string                   `json:"due_date"`
	Description  *string                   `json:"description"`
	IsActive     *bool                     `json:"is_active"`
}

// CreateReminder handles the creation of a reminder.
// @Summary     Create a reminder
// @Description Create a bill, subscription or custom reminder
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateReminderRequest true "Reminder details"
// @Success     201 {object} models.Reminder "Reminder created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders [post]
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseFlexibleTime(req.DueDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.ReminderInput{
		Title:        req.Title,
		ReminderType: req.ReminderType,
		Frequency:    req.Frequency,
		DueDate:      dueDate,
		Description:  req.Description,
	}
	if req.Amount != nil {
		in.Amount = decimal.NewNullDecimal(*req.Amount)
	}

	reminder, err := h.reminderService.CreateReminder(userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_REMINDER", "reminder", reminder.ID, c.ClientIP(),
		map[string]interface{}{"title": reminder.Title, "frequency": reminder.Frequency})

	c.JSON(http.StatusCreated, gin.H{"reminder": reminder})
}

// GetReminders handles listing reminders.
// @Summary     Get reminders
// @Description Get a paginated list of reminders ordered by due date
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active query bool false "Filter by active flag"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Reminder] "Paginated reminders"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders [get]
func (h *ReminderHandler) GetReminders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.reminderService.GetUserReminders(userID, page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReminder handles retrieving a reminder.
// @Summary     Get reminder by ID
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Reminder ID"
// @Success     200 {object} models.Reminder "Reminder details"
// @Failure     400 {object} ErrorResponse "Invalid reminder ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Reminder not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders/{id} [get]
func (h *ReminderHandler) GetReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminder, err := h.reminderService.GetReminderByID(userID, reminderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminder})
}

// UpdateReminder handles updating a reminder.
// @Summary     Update reminder
// @Description Update reminder fields or deactivate it
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Reminder ID"
// @Param       request body UpdateReminderRequest true "Updated reminder details"
// @Success     200 {object} models.Reminder "Updated reminder"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Reminder not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders/{id} [put]
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminder, err := h.reminderService.UpdateReminder(userID, reminderID, services.ReminderUpdate{
		Title:        req.Title,
		Amount:       req.Amount,
		ReminderType: req.ReminderType,
		Frequency:    req.Frequency,
		DueDate:      dueDate,
		Description:  req.Description,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_REMINDER", "reminder", reminderID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"reminder": reminder})
}

// DeleteReminder handles deleting a reminder.
// @Summary     Delete reminder
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Reminder ID"
// @Success     200 {object} MessageResponse "Reminder deleted"
// @Failure     400 {object} ErrorResponse "Invalid reminder ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Reminder not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders/{id} [delete]
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.reminderService.DeleteReminder(userID, reminderID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_REMINDER", "reminder", reminderID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Reminder deleted successfully"})
}
