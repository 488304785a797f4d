package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/shinehub-server/internal/service/moderation"
	"github.com/vovakirdan/shinehub-server/internal/store"
)

// ModerationHandlers serves user reports and the admin console.
type ModerationHandlers struct {
	service *moderation.Service
	log     *zerolog.Logger
}

// NewModerationHandlers creates a new moderation handlers instance.
func NewModerationHandlers(svc *moderation.Service, logger *zerolog.Logger) *ModerationHandlers {
	return &ModerationHandlers{service: svc, log: logger}
}

// ReportRequest represents the request body for reporting a user.
type ReportRequest struct {
	ReportedUserID int64  `json:"reported_user_id"`
	MessageID      *int64 `json:"message_id"`
	Reason         string `json:"reason"`
}

// ReportResponse represents a report in API responses.
type ReportResponse struct {
	ID             int64     `json:"id"`
	ReporterID     int64     `json:"reporter_id"`
	ReportedUserID int64     `json:"reported_user_id"`
	MessageID      *int64    `json:"message_id"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReportResponse(r *store.Report) ReportResponse {
	return ReportResponse{
		ID:             r.ID,
		ReporterID:     r.ReporterID,
		ReportedUserID: r.ReportedUserID,
		MessageID:      r.MessageID,
		Reason:         r.Reason,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
	}
}

// Report files a report against another user.
// POST /api/reports
func (h *ModerationHandlers) Report(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	report, err := h.service.Report(c.Request.Context(), uid, moderation.ReportInput{
		ReportedUserID: req.ReportedUserID,
		MessageID:      req.MessageID,
		Reason:         req.Reason,
	})
	switch {
	case err == nil:
		h.log.Info().Int64("report_id", report.ID).Int64("reporter_id", uid).Int64("reported_user_id", report.ReportedUserID).Msg("report filed")
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	case errors.Is(err, moderation.ErrInvalidReport):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Int64("reporter_id", uid).Msg("failed to file report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// Users lists every account for the admin console.
// GET /api/admin/users
func (h *ModerationHandlers) Users(c *gin.Context) {
	users, err := h.service.Users(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, lo.Map(users, func(u *store.User, _ int) AdminUserResponse {
		return AdminUserResponse{
			UserResponse: toUserResponse(u),
			IsBanned:     u.IsBanned,
			LastLogin:    u.LastLogin,
			CreatedAt:    u.CreatedAt,
		}
	}))
}

// Reports lists filed reports.
// GET /api/admin/reports
func (h *ModerationHandlers) Reports(c *gin.Context) {
	reports, err := h.service.Reports(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list reports")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, lo.Map(reports, func(r *store.Report, _ int) ReportResponse {
		return toReportResponse(r)
	}))
}

// Ban bans a user and disconnects them.
// POST /api/admin/ban/:id
func (h *ModerationHandlers) Ban(c *gin.Context) {
	h.apply(c, h.service.Ban)
}

// Delete deletes a user and disconnects them.
// DELETE /api/admin/users/:id
func (h *ModerationHandlers) Delete(c *gin.Context) {
	h.apply(c, h.service.Delete)
}

func (h *ModerationHandlers) apply(c *gin.Context, action func(ctx context.Context, adminID, userID int64) error) {
	adminID, ok := currentUserID(c, h.log)
	if !ok {
		return
	}
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	err := action(c.Request.Context(), adminID, userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	case errors.Is(err, moderation.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, moderation.ErrCannotTargetSelf):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Int64("admin_id", adminID).Int64("user_id", userID).Msg("moderation action failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
