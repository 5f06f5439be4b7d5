package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spendbook/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Budget *decimal.Decimal `json:"budget" binding:"required,nonneg,money"`
}

// BudgetResponse carries the user's budget.
type BudgetResponse struct {
	Message string          `json:"message"`
	Budget  decimal.Decimal `json:"budget"`
}

// BudgetChangeResponse describes a completed update.
type BudgetChangeResponse struct {
	Message   string          `json:"message"`
	Direction string          `json:"direction"`
	Previous  decimal.Decimal `json:"previous"`
	Budget    decimal.Decimal `json:"budget"`
}

var budgetMessages = map[services.BudgetDirection]string{
	services.BudgetIncreased: "Budget increased successfully",
	services.BudgetDecreased: "Budget decreased successfully",
	services.BudgetUnchanged: "Budget unchanged",
}

// GetBudget returns a user's budget
// @Summary     Get a user's budget
// @Tags        budgets
// @Produce     json
// @Param       userId path string true "User ID"
// @Success     200 {object} BudgetResponse "Budget"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userId}/budget [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Message: "Budget fetched successfully", Budget: budget})
}

// UpdateBudget replaces a user's budget
// @Summary     Update a user's budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       userId  path string              true "User ID"
// @Param       request body UpdateBudgetRequest true "New budget"
// @Success     200 {object} BudgetChangeResponse "Budget updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userId}/budget [post]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	change, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, *req.Budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditUpdateBudget, "user", userID, c.ClientIP(),
		map[string]interface{}{"previous": change.Previous.String(), "current": change.Current.String()})

	c.JSON(http.StatusOK, BudgetChangeResponse{
		Message:   budgetMessages[change.Direction],
		Direction: string(change.Direction),
		Previous:  change.Previous,
		Budget:    change.Current,
	})
}
