package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
	"spendbook/internal/metrics"
	"spendbook/internal/models"
	"spendbook/internal/storage"
)

// ledgerService applies spend to per-user and per-member running totals.
// Every multi-row change runs in one store transaction.
type ledgerService struct {
	store         storage.Store
	metrics       *metrics.Metrics
	defaultBudget decimal.Decimal
	now           func() time.Time
}

// NewLedgerService creates a new LedgerServicer. m may be nil.
func NewLedgerService(store storage.Store, m *metrics.Metrics, defaultBudget decimal.Decimal) LedgerServicer {
	return &ledgerService{
		store:         store,
		metrics:       m,
		defaultBudget: defaultBudget,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func validateEntry(category string, amount decimal.Decimal) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if amount.IsNegative() {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if !models.IsMoney(amount) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must have at most 2 decimal places")
	}
	return category, nil
}

// RecordExpense adds amount to the user's expense for category.
func (s *ledgerService) RecordExpense(ctx context.Context, userID, category string, amount decimal.Decimal, budget *decimal.Decimal) (*ExpenseResult, error) {
	category, err := validateEntry(category, amount)
	if err != nil {
		return nil, err
	}
	if budget != nil && budget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must not be negative")
	}
	if budget != nil && !models.IsMoney(*budget) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must have at most 2 decimal places")
	}

	var result *ExpenseResult
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return lookupErr(err, apperrors.ErrUserNotFound)
		}

		now := s.now()
		existing, err := tx.FindExpenseForUpdate(ctx, userID, category)
		switch {
		case err == nil:
			existing.Amount = existing.Amount.Add(amount)
			if err := tx.UpdateExpenseAmount(ctx, existing); err != nil {
				return internalErr(err)
			}
			entry := &models.ExpenseEntry{ExpenseID: existing.ID, Amount: amount, Date: now}
			if err := tx.AppendExpenseHistory(ctx, entry); err != nil {
				return internalErr(err)
			}
			existing.History = append(existing.History, *entry)
			result = &ExpenseResult{Outcome: OutcomeUpdated, Expense: existing}
			return nil

		case errors.Is(err, storage.ErrNotFound):
			initialBudget := s.defaultBudget
			if budget != nil {
				initialBudget = *budget
			}
			expense := &models.Expense{
				UserID:   userID,
				Category: category,
				Amount:   amount,
				Budget:   initialBudget,
				History:  []models.ExpenseEntry{{Amount: amount, Date: now}},
			}
			if err := tx.CreateExpense(ctx, expense); err != nil {
				switch {
				case errors.Is(err, storage.ErrDuplicate):
					return apperrors.Wrap(apperrors.ErrDuplicateCategory, err)
				case errors.Is(err, storage.ErrReferenceMissing):
					return apperrors.ErrUserNotFound
				}
				return internalErr(err)
			}
			result = &ExpenseResult{Outcome: OutcomeCreated, Expense: expense}
			return nil

		default:
			return internalErr(err)
		}
	})
	if err != nil {
		s.metrics.LedgerWrite(metrics.ScopeUser, "failed", 0)
		return nil, internalErr(err)
	}

	s.metrics.LedgerWrite(metrics.ScopeUser, string(result.Outcome), amount.InexactFloat64())
	logger.Get().Debugw("expense recorded",
		"user_id", userID,
		"category", category,
		"outcome", result.Outcome,
	)
	return result, nil
}

// RecordGroupMemberExpense adds amount to the member's total for category
// and to the member's spents.
func (s *ledgerService) RecordGroupMemberExpense(ctx context.Context, groupID, memberID, category string, amount decimal.Decimal) (*MemberExpenseResult, error) {
	category, err := validateEntry(category, amount)
	if err != nil {
		return nil, err
	}

	var result *MemberExpenseResult
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetGroupByID(ctx, groupID); err != nil {
			return lookupErr(err, apperrors.ErrGroupNotFound)
		}
		member, err := tx.GetMemberForUpdate(ctx, groupID, memberID)
		if err != nil {
			return lookupErr(err, apperrors.ErrMemberNotFound)
		}

		data, err := tx.FindMemberDataForUpdate(ctx, groupID, memberID, category)
		outcome := OutcomeUpdated
		switch {
		case err == nil:
			data.Amount = data.Amount.Add(amount)
			if err := tx.UpdateMemberDataAmount(ctx, data); err != nil {
				return internalErr(err)
			}

		case errors.Is(err, storage.ErrNotFound):
			outcome = OutcomeCreated
			data = &models.GroupMemberData{
				GroupMemberID: memberID,
				GroupID:       groupID,
				Category:      category,
				Amount:        amount,
			}
			if err := tx.CreateMemberData(ctx, data); err != nil {
				switch {
				case errors.Is(err, storage.ErrDuplicate):
					return apperrors.Wrap(apperrors.ErrDuplicateCategory, err)
				case errors.Is(err, storage.ErrReferenceMissing):
					return apperrors.ErrMemberNotFound
				}
				return internalErr(err)
			}

		default:
			return internalErr(err)
		}

		member.Spents = member.Spents.Add(amount)
		if err := tx.UpdateMemberSpents(ctx, member); err != nil {
			return internalErr(err)
		}

		result = &MemberExpenseResult{Outcome: outcome, Data: data, Member: member}
		return nil
	})
	if err != nil {
		s.metrics.LedgerWrite(metrics.ScopeGroup, "failed", 0)
		return nil, internalErr(err)
	}

	s.metrics.LedgerWrite(metrics.ScopeGroup, string(result.Outcome), amount.InexactFloat64())
	return result, nil
}

// DeleteExpense removes one of the user's expenses with its history.
func (s *ledgerService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return lookupErr(err, apperrors.ErrUserNotFound)
		}
		deleted, err := tx.DeleteExpense(ctx, userID, expenseID)
		if err != nil {
			return internalErr(err)
		}
		if deleted == 0 {
			return apperrors.ErrExpenseNotFound
		}
		return nil
	})
	return errOrNil(err)
}

// DeleteGroupMemberExpense removes one category total of a member. The
// member's spents keeps the deleted amount.
func (s *ledgerService) DeleteGroupMemberExpense(ctx context.Context, groupID, memberID, dataID string) error {
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetGroupByID(ctx, groupID); err != nil {
			return lookupErr(err, apperrors.ErrGroupNotFound)
		}
		if _, err := tx.GetMemberForUpdate(ctx, groupID, memberID); err != nil {
			return lookupErr(err, apperrors.ErrMemberNotFound)
		}
		deleted, err := tx.DeleteMemberData(ctx, groupID, memberID, dataID)
		if err != nil {
			return internalErr(err)
		}
		if deleted == 0 {
			return apperrors.ErrMemberDataNotFound
		}
		return nil
	})
	return errOrNil(err)
}

// DeleteUser removes the user's expenses, then the user. The expense
// cascade commits even when no user row matched.
func (s *ledgerService) DeleteUser(ctx context.Context, userID string) error {
	var usersDeleted, expensesDeleted int64
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		var err error
		if expensesDeleted, err = tx.DeleteExpensesByUser(ctx, userID); err != nil {
			return internalErr(err)
		}
		if usersDeleted, err = tx.DeleteUser(ctx, userID); err != nil {
			return internalErr(err)
		}
		return nil
	})
	if err != nil {
		return internalErr(err)
	}
	if usersDeleted == 0 {
		return apperrors.ErrUserNotFound
	}

	logger.Get().Infow("user deleted",
		"user_id", userID,
		"expenses_deleted", expensesDeleted,
	)
	return nil
}

func errOrNil(err error) error {
	if err == nil {
		return nil
	}
	return internalErr(err)
}
