package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spendbook/internal/logger"
	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/services"
	"spendbook/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	signupFn          func(name, email, password string) (*services.SignupResult, error)
	loginFn           func(email, password string) (*services.AuthResult, error)
	googleSignupFn    func(idToken, email, name string) (*services.AuthResult, error)
	googleLoginFn     func(email string) (*services.AuthResult, error)
	getUserByIDFn     func(id string) (*models.User, error)
	listUsersFn       func(page pagination.PageRequest) (*pagination.Page[models.User], error)
	getUserExpensesFn func(userID string) ([]models.Expense, error)
}

func (m *mockUserService) Signup(_ context.Context, name, email, password string) (*services.SignupResult, error) {
	if m.signupFn != nil {
		return m.signupFn(name, email, password)
	}
	return &services.SignupResult{User: &models.User{}, Created: true}, nil
}

func (m *mockUserService) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	if m.loginFn != nil {
		return m.loginFn(email, password)
	}
	return &services.AuthResult{User: &models.User{}}, nil
}

func (m *mockUserService) GoogleSignup(_ context.Context, idToken, email, name string) (*services.AuthResult, error) {
	if m.googleSignupFn != nil {
		return m.googleSignupFn(idToken, email, name)
	}
	return &services.AuthResult{User: &models.User{}, Created: true}, nil
}

func (m *mockUserService) GoogleLogin(_ context.Context, email string) (*services.AuthResult, error) {
	if m.googleLoginFn != nil {
		return m.googleLoginFn(email)
	}
	return &services.AuthResult{User: &models.User{}}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) ListUsers(_ context.Context, page pagination.PageRequest) (*pagination.Page[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(page)
	}
	p := pagination.NewPage[models.User](nil, page, 0)
	return &p, nil
}

func (m *mockUserService) GetUserExpenses(_ context.Context, userID string) ([]models.Expense, error) {
	if m.getUserExpensesFn != nil {
		return m.getUserExpensesFn(userID)
	}
	return []models.Expense{}, nil
}

var _ services.UserServicer = (*mockUserService)(nil)

type mockLedgerService struct {
	recordExpenseFn            func(userID, category string, amount decimal.Decimal, budget *decimal.Decimal) (*services.ExpenseResult, error)
	recordGroupMemberExpenseFn func(groupID, memberID, category string, amount decimal.Decimal) (*services.MemberExpenseResult, error)
	deleteExpenseFn            func(userID, expenseID string) error
	deleteGroupMemberExpenseFn func(groupID, memberID, dataID string) error
	deleteUserFn               func(userID string) error
}

func (m *mockLedgerService) RecordExpense(_ context.Context, userID, category string, amount decimal.Decimal, budget *decimal.Decimal) (*services.ExpenseResult, error) {
	if m.recordExpenseFn != nil {
		return m.recordExpenseFn(userID, category, amount, budget)
	}
	return &services.ExpenseResult{Outcome: services.OutcomeCreated, Expense: &models.Expense{}}, nil
}

func (m *mockLedgerService) RecordGroupMemberExpense(_ context.Context, groupID, memberID, category string, amount decimal.Decimal) (*services.MemberExpenseResult, error) {
	if m.recordGroupMemberExpenseFn != nil {
		return m.recordGroupMemberExpenseFn(groupID, memberID, category, amount)
	}
	return &services.MemberExpenseResult{Outcome: services.OutcomeCreated, Data: &models.GroupMemberData{}, Member: &models.GroupMember{}}, nil
}

func (m *mockLedgerService) DeleteExpense(_ context.Context, userID, expenseID string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockLedgerService) DeleteGroupMemberExpense(_ context.Context, groupID, memberID, dataID string) error {
	if m.deleteGroupMemberExpenseFn != nil {
		return m.deleteGroupMemberExpenseFn(groupID, memberID, dataID)
	}
	return nil
}

func (m *mockLedgerService) DeleteUser(_ context.Context, userID string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(userID)
	}
	return nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

type mockBudgetService struct {
	getBudgetFn    func(userID string) (decimal.Decimal, error)
	updateBudgetFn func(userID string, newBudget decimal.Decimal) (*services.BudgetChange, error)
}

func (m *mockBudgetService) GetBudget(_ context.Context, userID string) (decimal.Decimal, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(userID)
	}
	return decimal.Zero, nil
}

func (m *mockBudgetService) UpdateBudget(_ context.Context, userID string, newBudget decimal.Decimal) (*services.BudgetChange, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, newBudget)
	}
	return &services.BudgetChange{Direction: services.BudgetUnchanged}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

type mockGroupService struct {
	createGroupFn        func(groupName, groupPassword string) (*models.Group, error)
	joinOrCreateMemberFn func(req services.JoinRequest) (*services.JoinResult, error)
	listGroupsFn         func(page pagination.PageRequest) (*pagination.Page[models.Group], error)
	listMembersDataFn    func(groupID string) ([]services.MemberSummary, error)
}

func (m *mockGroupService) CreateGroup(_ context.Context, groupName, groupPassword string) (*models.Group, error) {
	if m.createGroupFn != nil {
		return m.createGroupFn(groupName, groupPassword)
	}
	return &models.Group{GroupName: groupName}, nil
}

func (m *mockGroupService) JoinOrCreateMember(_ context.Context, req services.JoinRequest) (*services.JoinResult, error) {
	if m.joinOrCreateMemberFn != nil {
		return m.joinOrCreateMemberFn(req)
	}
	return &services.JoinResult{Outcome: services.JoinCreated, Group: &models.Group{}, Member: &models.GroupMember{}}, nil
}

func (m *mockGroupService) ListGroups(_ context.Context, page pagination.PageRequest) (*pagination.Page[models.Group], error) {
	if m.listGroupsFn != nil {
		return m.listGroupsFn(page)
	}
	p := pagination.NewPage[models.Group](nil, page, 0)
	return &p, nil
}

func (m *mockGroupService) ListMembersData(_ context.Context, groupID string) ([]services.MemberSummary, error) {
	if m.listMembersDataFn != nil {
		return m.listMembersDataFn(groupID)
	}
	return []services.MemberSummary{}, nil
}

var _ services.GroupServicer = (*mockGroupService)(nil)

// mockAuditService records the actions it was asked to log.
type mockAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (m *mockAuditService) Log(_ context.Context, _, action, _, _, _ string, _ map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
}

func (m *mockAuditService) logged() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.actions...)
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	logger.Init("test")
}

const (
	testUserID   = "0191f3a0-0000-7000-8000-000000000001"
	testGroupID  = "0191f3a0-0000-7000-8000-000000000002"
	testMemberID = "0191f3a0-0000-7000-8000-000000000003"
	testDataID   = "0191f3a0-0000-7000-8000-000000000004"
)

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
