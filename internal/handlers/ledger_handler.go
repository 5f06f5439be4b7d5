package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spendbook/internal/models"
	"spendbook/internal/services"
)

// LedgerHandler records and removes user and group member expenses.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, auditService: auditService}
}

// RecordExpenseRequest adds an amount to a category. Budget applies only
// when the category is used for the first time.
type RecordExpenseRequest struct {
	Category string           `json:"category" binding:"required,category"`
	Amount   *decimal.Decimal `json:"amount" binding:"required,nonneg,money"`
	Budget   *decimal.Decimal `json:"budget" binding:"omitempty,nonneg,money"`
}

// RecordMemberExpenseRequest adds an amount to a group member's category.
type RecordMemberExpenseRequest struct {
	Category string           `json:"category" binding:"required,category"`
	Amount   *decimal.Decimal `json:"amount" binding:"required,nonneg,money"`
}

// ExpenseResponse is returned after recording a user expense.
type ExpenseResponse struct {
	Message string          `json:"message"`
	Outcome string          `json:"outcome"`
	Data    *models.Expense `json:"data"`
}

// MemberExpenseResponse is returned after recording a member expense.
type MemberExpenseResponse struct {
	Message string                  `json:"message"`
	Outcome string                  `json:"outcome"`
	Data    *models.GroupMemberData `json:"data"`
	Spents  decimal.Decimal         `json:"spents"`
}

// RecordExpense records spend for a user
// @Summary     Record a user expense
// @Description Add an amount to the user's category total. The first use of a category creates it.
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       userId  path string               true "User ID"
// @Param       request body RecordExpenseRequest true "Category and amount"
// @Success     201 {object} ExpenseResponse "Category created"
// @Success     200 {object} ExpenseResponse "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Category created concurrently"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userId}/data [post]
func (h *LedgerHandler) RecordExpense(c *gin.Context) {
	userID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	res, err := h.ledgerService.RecordExpense(c.Request.Context(), userID, req.Category, *req.Amount, req.Budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if res.Outcome == services.OutcomeCreated {
		c.JSON(http.StatusCreated, ExpenseResponse{Message: "Data added successfully", Outcome: string(res.Outcome), Data: res.Expense})
		return
	}
	c.JSON(http.StatusOK, ExpenseResponse{Message: "Data updated successfully", Outcome: string(res.Outcome), Data: res.Expense})
}

// DeleteExpense deletes one of a user's expenses
// @Summary     Delete a user expense
// @Tags        ledger
// @Produce     json
// @Param       userId path string true "User ID"
// @Param       dataId path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "User or expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userId}/data/{dataId} [delete]
func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	userID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}
	dataID, err := parsePathID(c, "dataId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteExpense(c.Request.Context(), userID, dataID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditDeleteExpense, "expense", dataID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, MessageResponse{Message: "Data deleted successfully"})
}

// RecordMemberExpense records spend for a group member
// @Summary     Record a group member expense
// @Description Add an amount to the member's category total and to the member's spents.
// @Tags        groups
// @Accept      json
// @Produce     json
// @Param       groupId  path string                     true "Group ID"
// @Param       memberId path string                     true "Member ID"
// @Param       request  body RecordMemberExpenseRequest true "Category and amount"
// @Success     201 {object} MemberExpenseResponse "Category created"
// @Success     200 {object} MemberExpenseResponse "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Group or member not found"
// @Failure     409 {object} ErrorResponse "Category created concurrently"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /{groupId}/members/{memberId}/data [post]
func (h *LedgerHandler) RecordMemberExpense(c *gin.Context) {
	groupID, err := parsePathID(c, "groupId")
	if err != nil {
		respondWithError(c, err)
		return
	}
	memberID, err := parsePathID(c, "memberId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordMemberExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	res, err := h.ledgerService.RecordGroupMemberExpense(c.Request.Context(), groupID, memberID, req.Category, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	body := MemberExpenseResponse{Outcome: string(res.Outcome), Data: res.Data, Spents: res.Member.Spents}
	if res.Outcome == services.OutcomeCreated {
		body.Message = "Data added successfully"
		c.JSON(http.StatusCreated, body)
		return
	}
	body.Message = "Data updated successfully"
	c.JSON(http.StatusOK, body)
}

// DeleteMemberExpense deletes one category total of a group member
// @Summary     Delete a group member expense
// @Description The member's spents is not reduced.
// @Tags        groups
// @Produce     json
// @Param       groupId  path string true "Group ID"
// @Param       memberId path string true "Member ID"
// @Param       dataId   path string true "Member data ID"
// @Success     200 {object} MessageResponse "Data deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Group, member or data not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /{groupId}/members/{memberId}/data/{dataId} [delete]
func (h *LedgerHandler) DeleteMemberExpense(c *gin.Context) {
	groupID, err := parsePathID(c, "groupId")
	if err != nil {
		respondWithError(c, err)
		return
	}
	memberID, err := parsePathID(c, "memberId")
	if err != nil {
		respondWithError(c, err)
		return
	}
	dataID, err := parsePathID(c, "dataId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteGroupMemberExpense(c.Request.Context(), groupID, memberID, dataID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), memberID, services.AuditDeleteMemberExpense, "group_member_data", dataID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, MessageResponse{Message: "Data deleted successfully from the member's category"})
}
