package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finwise/internal/errors"
	"finwise/internal/pagination"
	"finwise/internal/services"
)

// SavingsGoalHandler handles savings goal requests.
type SavingsGoalHandler struct {
	goalService  services.SavingsGoalServicer
	auditService services.AuditServicer
}

// NewSavingsGoalHandler creates a new SavingsGoalHandler.
func NewSavingsGoalHandler(goalService services.SavingsGoalServicer, auditService services.AuditServicer) *SavingsGoalHandler {
	return &SavingsGoalHandler{goalService: goalService, auditService: auditService}
}

// CreateSavingsGoalRequest represents the request payload for creating a savings goal.
type CreateSavingsGoalRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=100"`
	TargetAmount *decimal.Decimal `json:"target_amount" binding:"required" swaggertype:"string" example:"1000.00"`
	TargetDate   *string          `json:"target_date" example:"2025-06-01"`
	Icon         string           `json:"icon" binding:"max=50"`
}

// UpdateSavingsGoalRequest represents the request payload for updating a savings goal.
type UpdateSavingsGoalRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	TargetAmount *decimal.Decimal `json:"target_amount" swaggertype:"string"`
	TargetDate   *string          `json:"target_date"`
	Icon         *string          `json:"icon" binding:"omitempty,max=50"`
}

// AddFundsRequest represents the request payload for adding funds to a goal.
type AddFundsRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"50.00"`
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(*v)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return &t, nil
}

// CreateSavingsGoal handles the creation of a new savings goal.
// @Summary     Create a savings goal
// @Description Create a savings goal starting at zero
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSavingsGoalRequest true "Savings goal details"
// @Success     201 {object} services.SavingsGoalView "Savings goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals [post]
func (h *SavingsGoalHandler) CreateSavingsGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	targetDate, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateSavingsGoal(userID, services.SavingsGoalInput{
		Name:         req.Name,
		TargetAmount: *req.TargetAmount,
		TargetDate:   targetDate,
		Icon:         req.Icon,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SAVINGS_GOAL", "savings_goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": goal.Name, "target_amount": req.TargetAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"savings_goal": goal})
}

// GetSavingsGoals handles listing savings goals.
// @Summary     Get savings goals
// @Description Get a paginated list of the user's savings goals with progress
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_completed query bool false "Filter by completion"
// @Param       page         query int  false "Page number (default 1)"
// @Param       page_size    query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.SavingsGoalView] "Paginated savings goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals [get]
func (h *SavingsGoalHandler) GetSavingsGoals(c *gin.Context) {
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

	isCompleted, err := parseBoolQuery(c, "is_completed")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.goalService.GetUserSavingsGoals(userID, page, isCompleted)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSavingsGoal handles retrieving a savings goal.
// @Summary     Get savings goal by ID
// @Description Get a specific savings goal with progress
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Savings goal ID"
// @Success     200 {object} services.SavingsGoalView "Savings goal details"
// @Failure     400 {object} ErrorResponse "Invalid savings goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Savings goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [get]
func (h *SavingsGoalHandler) GetSavingsGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetSavingsGoalByID(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"savings_goal": goal})
}

// UpdateSavingsGoal handles updating a savings goal.
// @Summary     Update savings goal
// @Description Update name, target, target date or icon. Saved amount only changes through add-funds.
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Savings goal ID"
// @Param       request body UpdateSavingsGoalRequest true "Updated savings goal details"
// @Success     200 {object} services.SavingsGoalView "Updated savings goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Savings goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [put]
func (h *SavingsGoalHandler) UpdateSavingsGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	targetDate, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.UpdateSavingsGoal(userID, goalID, services.SavingsGoalUpdate{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		TargetDate:   targetDate,
		Icon:         req.Icon,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SAVINGS_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"savings_goal": goal})
}

// DeleteSavingsGoal handles deleting a savings goal.
// @Summary     Delete savings goal
// @Description Delete a savings goal (soft delete)
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Savings goal ID"
// @Success     200 {object} MessageResponse "Savings goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid savings goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Savings goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [delete]
func (h *SavingsGoalHandler) DeleteSavingsGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteSavingsGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SAVINGS_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Savings goal deleted successfully"})
}

// AddFunds handles adding money to a savings goal.
// @Summary     Add funds
// @Description Add a positive amount to the goal. Reaching the target completes the goal and sends one notification.
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Savings goal ID"
// @Param       request body AddFundsRequest true "Amount to add"
// @Success     200 {object} services.SavingsGoalView "Updated savings goal"
// @Failure     400 {object} ErrorResponse "Amount must be positive"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Savings goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id}/add-funds [post]
func (h *SavingsGoalHandler) AddFunds(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.AddFunds(userID, goalID, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_FUNDS", "savings_goal", goalID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount.String(), "completed": goal.IsCompleted})

	c.JSON(http.StatusOK, gin.H{"savings_goal": goal})
}
