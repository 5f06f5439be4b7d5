package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendbook/internal/auth"
	"spendbook/internal/logger"
	"spendbook/internal/metrics"
	"spendbook/internal/models"
	"spendbook/internal/server"
	"spendbook/internal/services"
	"spendbook/internal/testutil"
	"spendbook/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Metrics *metrics.Metrics
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// fakeGoogle accepts tokens of the form "google:<email>".
type fakeGoogle struct{}

func (fakeGoogle) Verify(_ context.Context, token string) (*auth.GoogleIdentity, error) {
	email, ok := strings.CutPrefix(token, "google:")
	if !ok {
		return nil, errors.New("token signature invalid")
	}
	return &auth.GoogleIdentity{Subject: "sub-" + email, Email: email, EmailVerified: true, Name: "Google User"}, nil
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	store, db := testutil.SetupTestStore(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	m := metrics.New()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewTokenIssuer("integration-secret", time.Hour)
	defaultBudget := models.DefaultBudget

	router := server.NewRouter(server.Services{
		Users:  services.NewUserService(store, hasher, tokens, fakeGoogle{}, defaultBudget),
		Ledger: services.NewLedgerService(store, m, defaultBudget),
		Budget: services.NewBudgetService(store, m),
		Groups: services.NewGroupService(store, hasher, m),
		Audit:  services.NewAuditService(store),
	}, server.Options{
		Tokens:         tokens,
		Metrics:        m,
		DisableSwagger: true,
	})

	return &testApp{DB: db, Router: router, Metrics: m}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got: %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// signupUser registers a password account and returns its ID.
func (app *testApp) signupUser(t *testing.T, name, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password)
	rec := app.request(http.MethodPost, "/signup", body, "")
	expectStatus(t, rec, http.StatusCreated)
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	return user["id"].(string)
}

// loginUser logs in and returns the session token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/login", body, "")
	expectStatus(t, rec, http.StatusOK)
	return parseJSON(t, rec)["token"].(string)
}

// userExpenses returns the data array of GET /users/:userId.
func (app *testApp) userExpenses(t *testing.T, userID string) []interface{} {
	t.Helper()
	rec := app.request(http.MethodGet, "/users/"+userID, "", "")
	expectStatus(t, rec, http.StatusOK)
	return parseJSON(t, rec)["data"].([]interface{})
}
