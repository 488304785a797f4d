package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/shinehub-server/internal/service/notices"
	"github.com/vovakirdan/shinehub-server/internal/store"
)

// NoticeHandlers provides HTTP handlers for the notice board.
type NoticeHandlers struct {
	service *notices.Service
	log     *zerolog.Logger
}

// NewNoticeHandlers creates a new notice handlers instance.
func NewNoticeHandlers(svc *notices.Service, logger *zerolog.Logger) *NoticeHandlers {
	return &NoticeHandlers{service: svc, log: logger}
}

// NoticeRequest represents the request body for posting a notice.
type NoticeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CommentRequest represents the request body for commenting on a notice.
type CommentRequest struct {
	Content string `json:"content"`
}

// NoticeResponse represents a notice in API responses.
type NoticeResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AdminID   int64     `json:"admin_id"`
	AdminName string    `json:"admin_name"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentResponse represents a notice comment in API responses.
type CommentResponse struct {
	ID        int64     `json:"id"`
	NoticeID  int64     `json:"notice_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toNoticeResponse(n *store.Notice) NoticeResponse {
	return NoticeResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		AdminID:   n.AdminID,
		AdminName: n.AdminName,
		CreatedAt: n.CreatedAt,
	}
}

func toCommentResponse(nc *store.NoticeComment) CommentResponse {
	return CommentResponse{
		ID:        nc.ID,
		NoticeID:  nc.NoticeID,
		UserID:    nc.UserID,
		UserName:  nc.UserName,
		Content:   nc.Content,
		CreatedAt: nc.CreatedAt,
	}
}

// List returns the notice board, newest first.
// GET /api/notices
func (h *NoticeHandlers) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list notices")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, lo.Map(list, func(n *store.Notice, _ int) NoticeResponse {
		return toNoticeResponse(n)
	}))
}

// Post publishes a notice. Admin only.
// POST /api/notices
func (h *NoticeHandlers) Post(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	var req NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	notice, err := h.service.Post(c.Request.Context(), uid, notices.NoticeInput{Title: req.Title, Content: req.Content})
	switch {
	case err == nil:
		h.log.Info().Int64("notice_id", notice.ID).Int64("admin_id", uid).Msg("notice posted")
		c.JSON(http.StatusOK, toNoticeResponse(notice))
	case errors.Is(err, notices.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title and content are required"})
	default:
		h.log.Error().Err(err).Int64("admin_id", uid).Msg("failed to post notice")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// Comments lists the comments on a notice.
// GET /api/notices/:id/comments
func (h *NoticeHandlers) Comments(c *gin.Context) {
	noticeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.service.Comments(c.Request.Context(), noticeID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, lo.Map(comments, func(nc *store.NoticeComment, _ int) CommentResponse {
			return toCommentResponse(nc)
		}))
	case errors.Is(err, notices.ErrNoticeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "notice not found"})
	default:
		h.log.Error().Err(err).Int64("notice_id", noticeID).Msg("failed to list comments")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// AddComment comments on a notice.
// POST /api/notices/:id/comments
func (h *NoticeHandlers) AddComment(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}
	noticeID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	comment, err := h.service.Comment(c.Request.Context(), noticeID, uid, notices.CommentInput{Content: req.Content})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, toCommentResponse(comment))
	case errors.Is(err, notices.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "content is required"})
	case errors.Is(err, notices.ErrNoticeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "notice not found"})
	default:
		h.log.Error().Err(err).Int64("notice_id", noticeID).Msg("failed to add comment")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
