package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "folio/internal/errors"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/services"
)

// AuthHandler handles registration, login and account settings.
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	jwtSecret    string
	tokenTTL     time.Duration
}

// NewAuthHandler creates a new AuthHandler. Tokens are signed with jwtSecret
// and expire after tokenTTL.
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		auditService: auditService,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=4,max=64"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token for subsequent requests.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// UserResponse wraps a user.
type UserResponse struct {
	User *models.User `json:"user"`
}

// UpdateSettingsRequest represents the settings update payload. Omitted fields
// keep their current value.
type UpdateSettingsRequest struct {
	BalanceThreshold *decimal.Decimal `json:"balanceThreshold" binding:"omitempty,gte=0,lte=100"`
	Email            *string          `json:"email" binding:"omitempty,email,max=255"`
	AlertFrequency   *string          `json:"alertFrequency" binding:"omitempty,alert_frequency"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Create an account with an empty portfolio
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Credentials"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{User: user})
}

// Login handles user login
// @Summary     Login user
// @Description Exchange credentials for a bearer token
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} LoginResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.AttemptLogin(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user, h.jwtSecret, h.tokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, Username: user.Username})
}

// Me returns the authenticated user.
// @Summary     Current user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: user})
}

// UpdateSettings changes the rebalancing threshold and alert preferences.
// @Summary     Update settings
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Settings"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/settings [put]
func (h *AuthHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	update := services.SettingsUpdate{
		BalanceThreshold: req.BalanceThreshold,
		Email:            req.Email,
	}
	if req.AlertFrequency != nil {
		freq := models.AlertFrequency(*req.AlertFrequency)
		update.AlertFrequency = &freq
	}

	user, err := h.userService.UpdateSettings(userID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionUpdateSettings, "user", userID, c.ClientIP(),
		map[string]interface{}{"settings": user.Settings})

	c.JSON(http.StatusOK, UserResponse{User: user})
}
