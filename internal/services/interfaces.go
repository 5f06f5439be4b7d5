package services

import (
	"context"

	"github.com/shopspring/decimal"

	"spendbook/internal/models"
	"spendbook/internal/pagination"
)

// Outcome tags whether a ledger write created a new record or added to an
// existing one.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// ExpenseResult is the result of recording a user expense.
type ExpenseResult struct {
	Outcome Outcome
	Expense *models.Expense
}

// MemberExpenseResult is the result of recording a group member expense.
// Member carries the updated spents aggregate.
type MemberExpenseResult struct {
	Outcome Outcome
	Data    *models.GroupMemberData
	Member  *models.GroupMember
}

// LedgerServicer defines the contract for recording and removing spend.
type LedgerServicer interface {
	// RecordExpense adds amount to the user's running total for category,
	// creating the record on first use. budget only applies on creation; nil
	// means the configured default.
	RecordExpense(ctx context.Context, userID, category string, amount decimal.Decimal, budget *decimal.Decimal) (*ExpenseResult, error)
	RecordGroupMemberExpense(ctx context.Context, groupID, memberID, category string, amount decimal.Decimal) (*MemberExpenseResult, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
	DeleteGroupMemberExpense(ctx context.Context, groupID, memberID, dataID string) error
	DeleteUser(ctx context.Context, userID string) error
}

// BudgetDirection classifies a budget update against the previous value.
type BudgetDirection string

const (
	BudgetIncreased BudgetDirection = "increased"
	BudgetDecreased BudgetDirection = "decreased"
	BudgetUnchanged BudgetDirection = "unchanged"
)

// BudgetChange describes a completed budget update.
type BudgetChange struct {
	Direction BudgetDirection `json:"direction"`
	Previous  decimal.Decimal `json:"previous"`
	Current   decimal.Decimal `json:"current"`
}

// BudgetServicer defines the contract for the per-user budget.
type BudgetServicer interface {
	GetBudget(ctx context.Context, userID string) (decimal.Decimal, error)
	UpdateBudget(ctx context.Context, userID string, newBudget decimal.Decimal) (*BudgetChange, error)
}

// JoinOutcome tags how a join request was resolved.
type JoinOutcome string

const (
	JoinCreated  JoinOutcome = "created"
	JoinRejoined JoinOutcome = "rejoined"
)

// JoinRequest carries the four credentials of a group join.
type JoinRequest struct {
	GroupName      string
	GroupPassword  string
	MemberName     string
	MemberPassword string
}

// JoinResult is the member a join request resolved to.
type JoinResult struct {
	Outcome JoinOutcome
	Group   *models.Group
	Member  *models.GroupMember
}

// MemberSummary is one member's share of a group's spend.
type MemberSummary struct {
	MemberID          string                   `json:"memberId"`
	MemberName        string                   `json:"memberName"`
	Spents            decimal.Decimal          `json:"spents"`
	DataByGroupMember []models.GroupMemberData `json:"dataByGroupMember"`
}

// GroupServicer defines the contract for groups and their members.
type GroupServicer interface {
	CreateGroup(ctx context.Context, groupName, groupPassword string) (*models.Group, error)
	JoinOrCreateMember(ctx context.Context, req JoinRequest) (*JoinResult, error)
	ListGroups(ctx context.Context, page pagination.PageRequest) (*pagination.Page[models.Group], error)
	ListMembersData(ctx context.Context, groupID string) ([]MemberSummary, error)
}

// SignupResult reports whether signup created an account or attached a
// password to an existing Google account.
type SignupResult struct {
	User    *models.User
	Created bool
}

// AuthResult is an authenticated user with a fresh session token.
type AuthResult struct {
	User    *models.User
	Token   string
	Created bool
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Signup(ctx context.Context, name, email, password string) (*SignupResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GoogleSignup(ctx context.Context, idToken, email, name string) (*AuthResult, error)
	GoogleLogin(ctx context.Context, email string) (*AuthResult, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.Page[models.User], error)
	GetUserExpenses(ctx context.Context, userID string) ([]models.Expense, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, actorID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
