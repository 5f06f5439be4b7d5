// Package storage defines the persistence contract the ledger services run
// against. Implementations must translate backend errors into ErrNotFound
// and ErrDuplicate so services can classify failures without knowing the
// driver.
package storage

import (
	"context"
	"errors"

	"spendbook/internal/models"
	"spendbook/internal/pagination"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("storage: record not found")

	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("storage: duplicate key")

	// ErrReferenceMissing is returned when a write points at a parent row
	// that no longer exists (a foreign key violation).
	ErrReferenceMissing = errors.New("storage: referenced record missing")
)

// Store is the entity store over users, expenses, groups, group members and
// group member data. Single-row writes are atomic; multi-row sequences must
// go through WithTx.
type Store interface {
	// WithTx runs fn inside one database transaction. The Store passed to fn
	// is bound to the transaction; fn must not use the outer Store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	UserStore
	ExpenseStore
	GroupStore
	AuditStore
}

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, page pagination.PageRequest) ([]models.User, int64, error)
	UpdateUser(ctx context.Context, user *models.User) error
	// DeleteUser returns the number of users removed (0 or 1).
	DeleteUser(ctx context.Context, id string) (int64, error)
}

// ExpenseStore persists per-user expenses and their history.
type ExpenseStore interface {
	// FindExpenseForUpdate returns the expense for (userID, category) and
	// locks it for the rest of the enclosing transaction where the backend
	// supports row locks.
	FindExpenseForUpdate(ctx context.Context, userID, category string) (*models.Expense, error)
	// CreateExpense inserts the expense together with its History entries.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// UpdateExpenseAmount persists Amount and Budget; History is untouched.
	UpdateExpenseAmount(ctx context.Context, expense *models.Expense) error
	AppendExpenseHistory(ctx context.Context, entry *models.ExpenseEntry) error
	// ListExpensesByUser returns the user's expenses oldest first, with history.
	ListExpensesByUser(ctx context.Context, userID string) ([]models.Expense, error)
	// DeleteExpense removes the expense only if it belongs to userID and
	// returns the number of expenses removed.
	DeleteExpense(ctx context.Context, userID, expenseID string) (int64, error)
	DeleteExpensesByUser(ctx context.Context, userID string) (int64, error)
}

// GroupStore persists groups, their members and member data.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id string) (*models.Group, error)
	GetGroupByName(ctx context.Context, name string) (*models.Group, error)
	ListGroups(ctx context.Context, page pagination.PageRequest) ([]models.Group, int64, error)

	CreateMember(ctx context.Context, member *models.GroupMember) error
	FindMemberByName(ctx context.Context, groupID, displayName string) (*models.GroupMember, error)
	// GetMemberForUpdate returns the member only if it belongs to groupID
	// and locks it for the enclosing transaction.
	GetMemberForUpdate(ctx context.Context, groupID, memberID string) (*models.GroupMember, error)
	UpdateMemberSpents(ctx context.Context, member *models.GroupMember) error
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)

	FindMemberDataForUpdate(ctx context.Context, groupID, memberID, category string) (*models.GroupMemberData, error)
	CreateMemberData(ctx context.Context, data *models.GroupMemberData) error
	UpdateMemberDataAmount(ctx context.Context, data *models.GroupMemberData) error
	ListMemberDataByMember(ctx context.Context, memberID string) ([]models.GroupMemberData, error)
	// DeleteMemberData removes the row only if it belongs to (groupID,
	// memberID) and returns the number of rows removed.
	DeleteMemberData(ctx context.Context, groupID, memberID, dataID string) (int64, error)
}

// AuditStore persists audit log entries.
type AuditStore interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}
