package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"spendbook/internal/auth"
	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/storage"
)

// TokenIssuer issues session tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// userService handles registration, login and user lookups.
type userService struct {
	store         storage.Store
	hasher        auth.PasswordHasher
	tokens        TokenIssuer
	verifier      auth.IDTokenVerifier
	defaultBudget decimal.Decimal
}

// NewUserService creates a new UserServicer.
func NewUserService(store storage.Store, hasher auth.PasswordHasher, tokens TokenIssuer, verifier auth.IDTokenVerifier, defaultBudget decimal.Decimal) UserServicer {
	return &userService{
		store:         store,
		hasher:        hasher,
		tokens:        tokens,
		verifier:      verifier,
		defaultBudget: defaultBudget,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a password account. A Google-only account with the same
// email gets the password attached instead.
func (s *userService) Signup(ctx context.Context, name, email, password string) (*SignupResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name, email and password are required")
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.HasPassword() {
			return nil, apperrors.ErrDuplicateEmail
		}
	case !errors.Is(err, storage.ErrNotFound):
		return nil, internalErr(err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internalErr(err)
	}

	if existing != nil {
		existing.Password = hashed
		if err := s.store.UpdateUser(ctx, existing); err != nil {
			return nil, internalErr(err)
		}
		logger.Get().Infow("password attached to google account", "user_id", existing.ID)
		return &SignupResult{User: existing, Created: false}, nil
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Password:     hashed,
		AuthProvider: models.AuthProviderPassword,
		Budget:       s.defaultBudget,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, internalErr(err)
	}
	return &SignupResult{User: user, Created: true}, nil
}

// Login checks the password and issues a session token.
func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrUserNotFound)
	}
	if !s.hasher.Compare(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user, false)
}

// GoogleSignup verifies a Google ID token, creates the account on first use
// and issues a session token.
func (s *userService) GoogleSignup(ctx context.Context, idToken, email, name string) (*AuthResult, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}

	email = normalizeEmail(email)
	if normalizeEmail(identity.Email) != email {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidToken, "Token email does not match")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return s.issue(user, false)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, internalErr(err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = identity.Name
	}
	user = &models.User{
		Name:         name,
		Email:        email,
		AuthProvider: models.AuthProviderGoogle,
		Budget:       s.defaultBudget,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, storage.ErrDuplicate) {
			return nil, internalErr(err)
		}
		// Lost a signup race for the same email; use the winner's row.
		if user, err = s.store.GetUserByEmail(ctx, email); err != nil {
			return nil, lookupErr(err, apperrors.ErrUserNotFound)
		}
		return s.issue(user, false)
	}
	return s.issue(user, true)
}

// GoogleLogin issues a session token for an existing account.
func (s *userService) GoogleLogin(ctx context.Context, email string) (*AuthResult, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrUserNotFound)
	}
	return s.issue(user, false)
}

func (s *userService) issue(user *models.User, created bool) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, internalErr(err)
	}
	return &AuthResult{User: user, Token: token, Created: created}, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// ListUsers returns one page of users, oldest first.
func (s *userService) ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.Page[models.User], error) {
	page = page.Normalize()
	users, total, err := s.store.ListUsers(ctx, page)
	if err != nil {
		return nil, internalErr(err)
	}
	result := pagination.NewPage(users, page, total)
	return &result, nil
}

// GetUserExpenses returns the user's expenses with history, oldest first.
func (s *userService) GetUserExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, lookupErr(err, apperrors.ErrUserNotFound)
	}
	expenses, err := s.store.ListExpensesByUser(ctx, userID)
	if err != nil {
		return nil, internalErr(err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}
