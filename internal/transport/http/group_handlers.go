package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/shinehub-server/internal/service/social"
	"github.com/vovakirdan/shinehub-server/internal/store"
)

// GroupHandlers provides HTTP handlers for group chats.
type GroupHandlers struct {
	service *social.Service
	log     *zerolog.Logger
}

// NewGroupHandlers creates a new group handlers instance.
func NewGroupHandlers(svc *social.Service, logger *zerolog.Logger) *GroupHandlers {
	return &GroupHandlers{service: svc, log: logger}
}

// CreateGroupRequest represents the request body for creating a group.
type CreateGroupRequest struct {
	Name    string  `json:"name" binding:"required"`
	Members []int64 `json:"members"`
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	PhotoURL  *string   `json:"photo_url"`
	AdminID   *int64    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toGroupResponse(g *store.Group) GroupResponse {
	return GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		PhotoURL:  g.PhotoURL,
		AdminID:   g.AdminID,
		CreatedAt: g.CreatedAt,
	}
}

// ListGroups lists the caller's groups.
// GET /api/groups
func (h *GroupHandlers) ListGroups(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	groups, err := h.service.Groups(c.Request.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to list groups")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, lo.Map(groups, func(g *store.Group, _ int) GroupResponse {
		return toGroupResponse(g)
	}))
}

// CreateGroup creates a group with the caller as its admin.
// POST /api/groups
func (h *GroupHandlers) CreateGroup(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create group request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	group, err := h.service.CreateGroup(c.Request.Context(), uid, req.Name, req.Members)
	switch {
	case err == nil:
		h.log.Info().Int64("group_id", group.ID).Int64("admin_id", uid).Int("members", len(req.Members)).Msg("group created")
		c.JSON(http.StatusOK, toGroupResponse(group))
	case errors.Is(err, social.ErrInvalidGroupName), errors.Is(err, social.ErrUserNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to create group")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
