package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/shinehub-server/internal/service/social"
	"github.com/vovakirdan/shinehub-server/internal/store"
)

// UserHandlers provides HTTP handlers for profile and follow operations.
type UserHandlers struct {
	store   store.UserStore
	service *social.Service
	log     *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.UserStore, svc *social.Service, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store:   st,
		service: svc,
		log:     logger,
	}
}

func toUserResponses(users []*store.User) []UserResponse {
	return lo.Map(users, func(u *store.User, _ int) UserResponse {
		return toUserResponse(u)
	})
}

// Me returns the caller's profile.
// GET /api/users/me
func (h *UserHandlers) Me(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to load user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// Suggested lists people the caller may know.
// GET /api/users/suggested
func (h *UserHandlers) Suggested(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	users, err := h.service.Suggested(c.Request.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to suggest users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toUserResponses(users))
}

// Friends lists the users the caller follows.
// GET /api/users/friends
func (h *UserHandlers) Friends(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	users, err := h.service.Friends(c.Request.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to list friends")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toUserResponses(users))
}

// Follow starts following a user.
// POST /api/users/follow/:id
func (h *UserHandlers) Follow(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	err := h.service.Follow(c.Request.Context(), uid, targetID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	case errors.Is(err, social.ErrCannotFollowSelf):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot follow yourself"})
	case errors.Is(err, social.ErrAlreadyFollowing), errors.Is(err, social.ErrUserNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Already following or user not found"})
	default:
		h.log.Error().Err(err).Int64("user_id", uid).Int64("target_id", targetID).Msg("failed to follow")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// Unfollow stops following a user.
// POST /api/users/unfollow/:id
func (h *UserHandlers) Unfollow(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), uid, targetID); err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Int64("target_id", targetID).Msg("failed to unfollow")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
