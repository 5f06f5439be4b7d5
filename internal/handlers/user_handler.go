package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/services"
)

// UserHandler serves user listings, a user's expenses and account deletion.
type UserHandler struct {
	userService   services.UserServicer
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, ledgerService services.LedgerServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, ledgerService: ledgerService, auditService: auditService}
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Message string                        `json:"message"`
	Users   pagination.Page[UserResponse] `json:"users"`
}

// UserExpensesResponse is a user with their expenses.
type UserExpensesResponse struct {
	Message string           `json:"message"`
	User    UserResponse     `json:"user"`
	Data    []models.Expense `json:"data"`
}

// ListUsers lists users
// @Summary     List users
// @Tags        user
// @Produce     json
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Items per page"
// @Success     200 {object} UserListResponse "Users"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items := make([]UserResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, newUserResponse(&result.Items[i]))
	}
	c.JSON(http.StatusOK, UserListResponse{
		Message: "Users fetched successfully",
		Users: pagination.Page[UserResponse]{
			Items:      items,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalItems: result.TotalItems,
			HasNext:    result.HasNext,
		},
	})
}

// GetUserExpenses returns a user's expenses with history
// @Summary     Get a user's expenses
// @Tags        user
// @Produce     json
// @Param       userId path string true "User ID"
// @Success     200 {object} UserExpensesResponse "User and expenses"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userId} [get]
func (h *UserHandler) GetUserExpenses(c *gin.Context) {
	userID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	expenses, err := h.userService.GetUserExpenses(ctx, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserExpensesResponse{
		Message: "User data fetched successfully",
		User:    newUserResponse(user),
		Data:    expenses,
	})
}

// DeleteUser deletes a user and all their expenses
// @Summary     Delete a user
// @Tags        user
// @Produce     json
// @Param       userId path string true "User ID"
// @Success     200 {object} MessageResponse "User deleted"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userId} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditDeleteUser, "user", userID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, MessageResponse{Message: "User and their data deleted successfully"})
}
