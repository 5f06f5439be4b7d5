package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendbook/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password every fixture is hashed from.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

func hashTestPassword(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

// Money parses a decimal literal, failing the test on bad input.
func Money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a password user with a unique email and the
// default budget.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", nextID()))
}

// CreateTestUserWithEmail creates a password user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		Password:     hashTestPassword(t),
		AuthProvider: models.AuthProviderPassword,
		Budget:       models.DefaultBudget,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGoogleUser creates a user that registered through Google and
// has no password.
func CreateTestGoogleUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Google User",
		Email:        email,
		AuthProvider: models.AuthProviderGoogle,
		Budget:       models.DefaultBudget,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test google user: %v", err)
	}
	return user
}

// CreateTestExpense creates an expense with a single history entry.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, category string, amount decimal.Decimal) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		Budget:   models.DefaultBudget,
		History:  []models.ExpenseEntry{{Amount: amount, Date: time.Now()}},
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGroup creates a group whose password is TestPassword.
func CreateTestGroup(t *testing.T, db *gorm.DB) *models.Group {
	t.Helper()

	group := &models.Group{
		GroupName:     fmt.Sprintf("Test Group %d", nextID()),
		GroupPassword: hashTestPassword(t),
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestMember creates a member of groupID whose password is TestPassword.
func CreateTestMember(t *testing.T, db *gorm.DB, groupID string) *models.GroupMember {
	t.Helper()

	member := &models.GroupMember{
		GroupID:     groupID,
		DisplayName: fmt.Sprintf("member%d", nextID()),
		Password:    hashTestPassword(t),
		Spents:      decimal.Zero,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestMemberData creates a category total for a group member.
func CreateTestMemberData(t *testing.T, db *gorm.DB, groupID, memberID, category string, amount decimal.Decimal) *models.GroupMemberData {
	t.Helper()

	data := &models.GroupMemberData{
		GroupID:       groupID,
		GroupMemberID: memberID,
		Category:      category,
		Amount:        amount,
	}
	if err := db.Create(data).Error; err != nil {
		t.Fatalf("failed to create test member data: %v", err)
	}
	return data
}
