package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/shinehub-server/internal/service/social"
	"github.com/vovakirdan/shinehub-server/internal/upload"
)

// MessageHandlers serves conversation history and image uploads.
type MessageHandlers struct {
	service  *social.Service
	uploads  *upload.Storage
	maxBytes int64
	log      *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(svc *social.Service, uploads *upload.Storage, maxBytes int64, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		service:  svc,
		uploads:  uploads,
		maxBytes: maxBytes,
		log:      logger,
	}
}

// UploadResponse carries the public URL of a stored image.
type UploadResponse struct {
	URL string `json:"url"`
}

// PrivateHistory returns the caller's conversation with another user.
// GET /api/messages/private/:otherId
func (h *MessageHandlers) PrivateHistory(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}
	otherID, ok := idParam(c, "otherId")
	if !ok {
		return
	}

	msgs, err := h.service.PrivateHistory(c.Request.Context(), uid, otherID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Int64("other_id", otherID).Msg("failed to load private history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, messagesToProto(msgs))
}

// GroupHistory returns a group's messages to one of its members.
// GET /api/messages/group/:groupId
func (h *MessageHandlers) GroupHistory(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "groupId")
	if !ok {
		return
	}

	msgs, err := h.service.GroupHistory(c.Request.Context(), uid, groupID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, messagesToProto(msgs))
	case errors.Is(err, social.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "group not found"})
	case errors.Is(err, social.ErrNotGroupMember):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	default:
		h.log.Error().Err(err).Int64("user_id", uid).Int64("group_id", groupID).Msg("failed to load group history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// Upload stores a chat image and returns the URL to reference in a message.
// POST /api/messages/upload
func (h *MessageHandlers) Upload(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	// Leave headroom for the multipart envelope around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	header, err := c.FormFile("image")
	if err != nil {
		h.log.Debug().Err(err).Int64("user_id", uid).Msg("upload without image")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file uploaded"})
		return
	}
	if header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: upload.ErrTooLarge.Error()})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer file.Close()

	url, err := h.uploads.Save(file)
	switch {
	case err == nil:
		h.log.Info().Int64("user_id", uid).Str("url", url).Msg("image uploaded")
		c.JSON(http.StatusOK, UploadResponse{URL: url})
	case errors.Is(err, upload.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
	case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrEmpty):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
