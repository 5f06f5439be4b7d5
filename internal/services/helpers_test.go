package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendbook/internal/auth"
	"spendbook/internal/logger"
	"spendbook/internal/models"
	"spendbook/internal/storage"
	"spendbook/internal/storage/gormstore"
	"spendbook/internal/testutil"
)

func init() {
	logger.Init("test")
}

func setupStore(t *testing.T) (*gormstore.Store, *gorm.DB) {
	t.Helper()
	store, db := testutil.SetupTestStore(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return store, db
}

func testHasher() auth.PasswordHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

// staleReadStore reports every locked lookup as missing, the way a reader
// that lost a race against a concurrent creator would see it.
type staleReadStore struct {
	storage.Store
}

func (s staleReadStore) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	return s.Store.WithTx(ctx, func(tx storage.Store) error {
		return fn(staleReadStore{Store: tx})
	})
}

func (s staleReadStore) FindExpenseForUpdate(context.Context, string, string) (*models.Expense, error) {
	return nil, storage.ErrNotFound
}

func (s staleReadStore) FindMemberDataForUpdate(context.Context, string, string, string) (*models.GroupMemberData, error) {
	return nil, storage.ErrNotFound
}

// failingStore fails every call a test opts into.
type failingStore struct {
	storage.Store
	err error
}

func (s failingStore) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	return s.Store.WithTx(ctx, func(tx storage.Store) error {
		return fn(failingStore{Store: tx, err: s.err})
	})
}

func (s failingStore) GetUserByID(context.Context, string) (*models.User, error) {
	return nil, s.err
}

var errBoom = errors.New("connection reset")

type stubTokens struct {
	err error
}

func (s stubTokens) Issue(user *models.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + user.ID, nil
}

type stubVerifier struct {
	identity *auth.GoogleIdentity
	err      error
}

func (s stubVerifier) Verify(context.Context, string) (*auth.GoogleIdentity, error) {
	return s.identity, s.err
}

// vanishedParentStore reports parents as present even after they are gone,
// as a concurrent delete between the lookup and the insert would.
type vanishedParentStore struct {
	storage.Store
}

func (s vanishedParentStore) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	return s.Store.WithTx(ctx, func(tx storage.Store) error {
		return fn(vanishedParentStore{tx})
	})
}

func (s vanishedParentStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{Base: models.Base{ID: id}, Budget: models.DefaultBudget}, nil
}

func (s vanishedParentStore) GetMemberForUpdate(_ context.Context, groupID, memberID string) (*models.GroupMember, error) {
	return &models.GroupMember{Base: models.Base{ID: memberID}, GroupID: groupID}, nil
}
