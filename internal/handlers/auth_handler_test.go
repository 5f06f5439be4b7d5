package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/models"
	"spendbook/internal/services"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/signup", handler.Signup)
	r.POST("/login", handler.Login)
	r.POST("/googleSignup", handler.GoogleSignup)
	r.POST("/googleLogin", handler.GoogleLogin)
	r.GET("/profile", injectUserID(testUserID), handler.GetProfile)
	r.GET("/anonymous-profile", handler.GetProfile)
	return r
}

func testUser() *models.User {
	u := &models.User{Name: "Asha", Email: "asha@example.com", AuthProvider: models.AuthProviderPassword, Budget: decimal.NewFromInt(500)}
	u.ID = testUserID
	return u
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("returns 201 for a new account", func(t *testing.T) {
		var gotEmail string
		h := NewAuthHandler(&mockUserService{
			signupFn: func(name, email, password string) (*services.SignupResult, error) {
				gotEmail = email
				return &services.SignupResult{User: testUser(), Created: true}, nil
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/signup",
			`{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
		assertStatus(t, rec, http.StatusCreated)
		if gotEmail != "asha@example.com" {
			t.Errorf("expected email to reach the service, got %q", gotEmail)
		}
		body := parseJSON(t, rec)
		user := body["user"].(map[string]interface{})
		if user["id"] != testUserID || user["budget"] != float64(500) {
			t.Errorf("unexpected user payload: %v", user)
		}
		if _, leaked := user["password"]; leaked {
			t.Error("password must not be serialized")
		}
	})

	t.Run("returns 200 when a password is attached to a Google account", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{
			signupFn: func(_, _, _ string) (*services.SignupResult, error) {
				return &services.SignupResult{User: testUser(), Created: false}, nil
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/signup",
			`{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{
			signupFn: func(_, _, _ string) (*services.SignupResult, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/signup",
			`{"name":"Asha","email":"asha@example.com","password":"secret1"}`)
		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})

	t.Run("returns 400 on invalid input", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{})
		for name, body := range map[string]string{
			"bad_email":      `{"name":"Asha","email":"nope","password":"secret1"}`,
			"short_password": `{"name":"Asha","email":"asha@example.com","password":"123"}`,
			"blank_name":     `{"name":"   ","email":"asha@example.com","password":"secret1"}`,
			"malformed":      `{`,
		} {
			t.Run(name, func(t *testing.T) {
				rec := doRequest(setupAuthRouter(h), http.MethodPost, "/signup", body)
				assertStatus(t, rec, http.StatusBadRequest)
				assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
			})
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token on success", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{
			loginFn: func(_, _ string) (*services.AuthResult, error) {
				return &services.AuthResult{User: testUser(), Token: "signed"}, nil
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/login", `{"email":"asha@example.com","password":"secret1"}`)
		assertStatus(t, rec, http.StatusOK)
		body := parseJSON(t, rec)
		if body["token"] != "signed" || body["userId"] != testUserID || body["name"] != "Asha" {
			t.Errorf("unexpected body: %v", body)
		}
	})

	t.Run("returns 401 on wrong password", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{
			loginFn: func(_, _ string) (*services.AuthResult, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/login", `{"email":"asha@example.com","password":"wrong"}`)
		assertStatus(t, rec, http.StatusUnauthorized)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 404 for unknown user", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{
			loginFn: func(_, _ string) (*services.AuthResult, error) {
				return nil, apperrors.ErrUserNotFound
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/login", `{"email":"ghost@example.com","password":"x"}`)
		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})
}

func TestAuthHandler_GoogleSignup(t *testing.T) {
	t.Run("returns 201 when the account is created", func(t *testing.T) {
		var gotToken string
		h := NewAuthHandler(&mockUserService{
			googleSignupFn: func(idToken, _, _ string) (*services.AuthResult, error) {
				gotToken = idToken
				return &services.AuthResult{User: testUser(), Token: "signed", Created: true}, nil
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/googleSignup",
			`{"token":"google-id-token","email":"asha@example.com","name":"Asha"}`)
		assertStatus(t, rec, http.StatusCreated)
		if gotToken != "google-id-token" {
			t.Errorf("expected ID token to reach the service, got %q", gotToken)
		}
	})

	t.Run("returns 200 for an existing account", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{
			googleSignupFn: func(_, _, _ string) (*services.AuthResult, error) {
				return &services.AuthResult{User: testUser(), Token: "signed"}, nil
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/googleSignup",
			`{"token":"google-id-token","email":"asha@example.com"}`)
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("returns 401 when the token is rejected", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{
			googleSignupFn: func(_, _, _ string) (*services.AuthResult, error) {
				return nil, apperrors.ErrInvalidToken
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/googleSignup",
			`{"token":"forged","email":"asha@example.com"}`)
		assertStatus(t, rec, http.StatusUnauthorized)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TOKEN")
	})

	t.Run("returns 400 without a token", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{})
		rec := doRequest(setupAuthRouter(h), http.MethodPost, "/googleSignup", `{"email":"asha@example.com"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestAuthHandler_GoogleLogin(t *testing.T) {
	h := NewAuthHandler(&mockUserService{
		googleLoginFn: func(email string) (*services.AuthResult, error) {
			if email != "asha@example.com" {
				return nil, apperrors.ErrUserNotFound
			}
			return &services.AuthResult{User: testUser(), Token: "signed"}, nil
		},
	})
	r := setupAuthRouter(h)

	rec := doRequest(r, http.MethodPost, "/googleLogin", `{"email":"asha@example.com"}`)
	assertStatus(t, rec, http.StatusOK)

	rec = doRequest(r, http.MethodPost, "/googleLogin", `{"email":"ghost@example.com"}`)
	assertStatus(t, rec, http.StatusNotFound)
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("returns the authenticated user", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				if id != testUserID {
					t.Errorf("expected lookup of %s, got %s", testUserID, id)
				}
				return testUser(), nil
			},
		})
		rec := doRequest(setupAuthRouter(h), http.MethodGet, "/profile", "")
		assertStatus(t, rec, http.StatusOK)
	})

	t.Run("returns 401 without a user in context", func(t *testing.T) {
		h := NewAuthHandler(&mockUserService{})
		rec := doRequest(setupAuthRouter(h), http.MethodGet, "/anonymous-profile", "")
		assertStatus(t, rec, http.StatusUnauthorized)
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}
