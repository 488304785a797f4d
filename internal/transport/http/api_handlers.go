package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/shinehub-server/internal/auth"
	"github.com/vovakirdan/shinehub-server/internal/store"
)

// APIHandlers provides the registration and login endpoints.
type APIHandlers struct {
	authService *auth.Service
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(authService *auth.Service, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		log:         logger,
	}
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Class      string `json:"class" binding:"required"`
	Section    string `json:"section" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	InviteCode string `json:"inviteCode"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response body.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges a mutation without a body of its own.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	Class        string  `json:"class"`
	Section      string  `json:"section"`
	ProfilePhoto *string `json:"profile_photo"`
	Role         string  `json:"role"`
}

// AdminUserResponse adds moderation fields for the admin user list.
type AdminUserResponse struct {
	UserResponse
	IsBanned  bool       `json:"is_banned"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Class:        u.Class,
		Section:      u.Section,
		ProfilePhoto: u.ProfilePhoto,
		Role:         string(u.Role),
	}
}

// Register handles user registration.
// POST /api/auth/register
func (h *APIHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid register request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, user, err := h.authService.Register(c.Request.Context(), auth.RegisterInput{
		Name:       req.Name,
		Class:      req.Class,
		Section:    req.Section,
		Username:   req.Username,
		Password:   req.Password,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInviteCode):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid invite code"})
		case errors.Is(err, auth.ErrUserExists):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username already exists"})
		case errors.Is(err, auth.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			h.log.Error().Err(err).Str("username", req.Username).Msg("failed to register user")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Registration failed"})
		}
		return
	}

	h.log.Info().Str("username", user.Username).Int64("user_id", user.ID).Msg("user registered successfully")
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(user)})
}

// Login handles user login.
// POST /api/auth/login
func (h *APIHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.log.Debug().Str("username", req.Username).Msg("login rejected")
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid credentials"})
		case errors.Is(err, auth.ErrBanned):
			h.log.Info().Str("username", req.Username).Msg("banned user attempted login")
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Your account has been banned"})
		default:
			h.log.Error().Err(err).Str("username", req.Username).Msg("failed to login user")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.log.Info().Str("username", user.Username).Msg("user logged in successfully")
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(user)})
}
