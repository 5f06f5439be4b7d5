package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spendbook/internal/models"
)

func orderHistory(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC, id ASC")
}

// FindExpenseForUpdate implements storage.ExpenseStore.
func (s *Store) FindExpenseForUpdate(ctx context.Context, userID, category string) (*models.Expense, error) {
	var expense models.Expense
	err := s.forUpdate(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		First(&expense).Error
	if err != nil {
		return nil, translate(err)
	}

	if err := s.conn(ctx).Scopes(orderHistory).
		Where("expense_id = ?", expense.ID).
		Find(&expense.History).Error; err != nil {
		return nil, translate(err)
	}
	return &expense, nil
}

// CreateExpense implements storage.ExpenseStore. GORM inserts the History
// slice in the same statement batch.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return translate(s.conn(ctx).Create(expense).Error)
}

// UpdateExpenseAmount implements storage.ExpenseStore.
func (s *Store) UpdateExpenseAmount(ctx context.Context, expense *models.Expense) error {
	return translate(s.conn(ctx).Model(expense).
		Omit(clause.Associations).
		Updates(map[string]interface{}{
			"amount": expense.Amount,
			"budget": expense.Budget,
		}).Error)
}

// AppendExpenseHistory implements storage.ExpenseStore.
func (s *Store) AppendExpenseHistory(ctx context.Context, entry *models.ExpenseEntry) error {
	return translate(s.conn(ctx).Create(entry).Error)
}

// ListExpensesByUser implements storage.ExpenseStore.
func (s *Store) ListExpensesByUser(ctx context.Context, userID string) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.conn(ctx).
		Preload("History", orderHistory).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, translate(err)
	}
	return expenses, nil
}

// DeleteExpense implements storage.ExpenseStore. History rows go first so the
// foreign key never dangles.
func (s *Store) DeleteExpense(ctx context.Context, userID, expenseID string) (int64, error) {
	owned := s.conn(ctx).Model(&models.Expense{}).
		Select("id").
		Where("id = ? AND user_id = ?", expenseID, userID)

	if err := s.conn(ctx).Where("expense_id IN (?)", owned).Delete(&models.ExpenseEntry{}).Error; err != nil {
		return 0, translate(err)
	}

	res := s.conn(ctx).Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	return res.RowsAffected, translate(res.Error)
}

// DeleteExpensesByUser implements storage.ExpenseStore.
func (s *Store) DeleteExpensesByUser(ctx context.Context, userID string) (int64, error) {
	owned := s.conn(ctx).Model(&models.Expense{}).Select("id").Where("user_id = ?", userID)

	if err := s.conn(ctx).Where("expense_id IN (?)", owned).Delete(&models.ExpenseEntry{}).Error; err != nil {
		return 0, translate(err)
	}

	res := s.conn(ctx).Where("user_id = ?", userID).Delete(&models.Expense{})
	return res.RowsAffected, translate(res.Error)
}
