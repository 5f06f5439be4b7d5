// Package gormstore implements storage.Store on top of GORM. It runs on
// PostgreSQL in production and SQLite in tests.
package gormstore

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spendbook/internal/storage"
)

// Store is a storage.Store backed by a *gorm.DB handle. The handle is either
// the connection pool or, inside WithTx, a transaction.
type Store struct {
	db *gorm.DB
}

var _ storage.Store = (*Store)(nil)

// New wraps db. Open db with gorm.Config{TranslateError: true} so
// uniqueness violations surface as storage.ErrDuplicate.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx implements storage.Store.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// forUpdate adds SELECT ... FOR UPDATE. The SQLite dialect drops the clause
// since SQLite serializes writers on its own.
func (s *Store) forUpdate(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// translate maps driver errors onto the storage sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return errors.Join(storage.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Join(storage.ErrReferenceMissing, err)
	default:
		return err
	}
}

// isUniqueViolation catches drivers whose errors GORM does not translate.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
