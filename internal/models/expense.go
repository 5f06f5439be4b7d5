package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendbook/internal/uuid"
)

// Expense is a user's running spend for one category. Amount always equals
// the sum of History.
type Expense struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;uniqueIndex:uq_expenses_user_category" json:"user"`
	Category string          `gorm:"not null;uniqueIndex:uq_expenses_user_category" json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);not null;check:amount >= 0" json:"amount"`
	Budget   decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"budget"`
	History  []ExpenseEntry  `gorm:"foreignKey:ExpenseID" json:"history"`
}

// ExpenseEntry is one contribution appended to an Expense's history.
// Entries are immutable once written.
type ExpenseEntry struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID string          `gorm:"type:uuid;not null;index" json:"-"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,2);not null;check:amount >= 0" json:"amount"`
	Date      time.Time       `gorm:"not null" json:"date"`
}

// TableName keeps the history table name independent of the struct name.
func (ExpenseEntry) TableName() string {
	return "expense_history"
}

// BeforeCreate hook generates a UUIDv7 for new history entries
func (e *ExpenseEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New()
	}
	return nil
}

// HistoryTotal sums the amounts recorded in History.
func (e *Expense) HistoryTotal() decimal.Decimal {
	total := decimal.Zero
	for _, h := range e.History {
		total = total.Add(h.Amount)
	}
	return total
}
