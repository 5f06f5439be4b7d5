package services

import (
	"context"

	"github.com/shopspring/decimal"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/metrics"
	"spendbook/internal/models"
	"spendbook/internal/storage"
)

// budgetService handles the per-user budget.
type budgetService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewBudgetService creates a new BudgetServicer. m may be nil.
func NewBudgetService(store storage.Store, m *metrics.Metrics) BudgetServicer {
	return &budgetService{store: store, metrics: m}
}

// GetBudget returns the user's current budget.
func (s *budgetService) GetBudget(ctx context.Context, userID string) (decimal.Decimal, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return decimal.Zero, lookupErr(err, apperrors.ErrUserNotFound)
	}
	return user.Budget, nil
}

// UpdateBudget replaces the user's budget and reports the direction of the
// change. The write happens even when the value is unchanged.
func (s *budgetService) UpdateBudget(ctx context.Context, userID string, newBudget decimal.Decimal) (*BudgetChange, error) {
	if newBudget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must not be negative")
	}
	if !models.IsMoney(newBudget) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must have at most 2 decimal places")
	}

	var change *BudgetChange
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		user, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			return lookupErr(err, apperrors.ErrUserNotFound)
		}

		change = &BudgetChange{
			Direction: budgetDirection(user.Budget, newBudget),
			Previous:  user.Budget,
			Current:   newBudget,
		}

		user.Budget = newBudget
		if err := tx.UpdateUser(ctx, user); err != nil {
			return internalErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, internalErr(err)
	}

	s.metrics.BudgetUpdate(string(change.Direction))
	return change, nil
}

func budgetDirection(previous, current decimal.Decimal) BudgetDirection {
	switch current.Cmp(previous) {
	case 1:
		return BudgetIncreased
	case -1:
		return BudgetDecreased
	default:
		return BudgetUnchanged
	}
}
