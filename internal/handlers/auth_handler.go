package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spendbook/internal/models"
	"spendbook/internal/services"
)

// AuthHandler handles signup, login and profile requests.
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleSignupRequest carries a Google ID token and the profile it claims.
type GoogleSignupRequest struct {
	Token string `json:"token" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"max=100"`
}

// GoogleLoginRequest represents the Google login request payload
type GoogleLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	AuthProvider string          `json:"auth_provider"`
	Budget       decimal.Decimal `json:"budget"`
}

// SignupResponse is returned by Signup.
type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Token   string `json:"token"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		AuthProvider: string(u.AuthProvider),
		Budget:       u.Budget,
	}
}

func newAuthResponse(message string, res *services.AuthResult) AuthResponse {
	return AuthResponse{
		Message: message,
		UserID:  res.User.ID,
		Name:    res.User.Name,
		Token:   res.Token,
	}
}

// Signup handles user registration
// @Summary     Register a new user
// @Description Create a password account. For an existing Google-only account the password is attached instead.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignupRequest true "User registration data"
// @Success     201 {object} SignupResponse "User created"
// @Success     200 {object} SignupResponse "Password set on existing account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	res, err := h.userService.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if res.Created {
		c.JSON(http.StatusCreated, SignupResponse{Message: "User created successfully", User: newUserResponse(res.User)})
		return
	}
	c.JSON(http.StatusOK, SignupResponse{Message: "Password created for existing account", User: newUserResponse(res.User)})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate with email and password and get a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Incorrect password"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	res, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse("Login successful", res))
}

// GoogleSignup handles sign-in with a Google ID token
// @Summary     Sign up with Google
// @Description Verify a Google ID token, create the account on first use and get a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body GoogleSignupRequest true "Google ID token and profile"
// @Success     201 {object} AuthResponse "Account created"
// @Success     200 {object} AuthResponse "Existing account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Token could not be verified"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /googleSignup [post]
func (h *AuthHandler) GoogleSignup(c *gin.Context) {
	var req GoogleSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	res, err := h.userService.GoogleSignup(c.Request.Context(), req.Token, req.Email, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if res.Created {
		c.JSON(http.StatusCreated, newAuthResponse("User created successfully", res))
		return
	}
	c.JSON(http.StatusOK, newAuthResponse("User already exists, logged in", res))
}

// GoogleLogin handles login for accounts created with Google
// @Summary     Login with Google
// @Description Get a session token for an existing account
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body GoogleLoginRequest true "Account email"
// @Success     200 {object} AuthResponse "Token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /googleLogin [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	res, err := h.userService.GoogleLogin(c.Request.Context(), req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse("Login successful", res))
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SignupResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SignupResponse{Message: "Profile fetched", User: newUserResponse(user)})
}
