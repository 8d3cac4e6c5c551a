package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/service"
)

// MessageHandler handles message endpoints for channels and DMs.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

type sendMessageRequest struct {
	Content       string   `json:"content"`
	ReplyToID     *int64   `json:"reply_to_id,string"`
	AttachmentIDs []string `json:"attachment_ids"`
}

// SendMessage handles POST /api/v1/channels/:id/messages.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	attachmentIDs := make([]int64, 0, len(req.AttachmentIDs))
	for _, raw := range req.AttachmentIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid attachment ID")
		}
		attachmentIDs = append(attachmentIDs, id)
	}

	msg, err := h.service.Send(c.Request().Context(), channelID, auth.GetUserID(c), req.Content, req.ReplyToID, attachmentIDs)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// GetMessages handles GET /api/v1/channels/:id/messages.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	var before *int64
	if b := c.QueryParam("before"); b != "" {
		parsed, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			return Error(c, http.StatusBadRequest, "INVALID_CURSOR", "invalid before cursor")
		}
		before = &parsed
	}

	messages, err := h.service.List(c.Request().Context(), channelID, auth.GetUserID(c), before, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}

type editMessageRequest struct {
	Content string `json:"content"`
}

// EditMessage handles PATCH /api/v1/channels/:id/messages/:message_id.
func (h *MessageHandler) EditMessage(c echo.Context) error {
	messageID, err := strconv.ParseInt(c.Param("message_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid message ID")
	}

	var req editMessageRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	msg, err := h.service.Edit(c.Request().Context(), messageID, auth.GetUserID(c), req.Content)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, msg)
}

// DeleteMessage handles DELETE /api/v1/channels/:id/messages/:message_id.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	messageID, err := strconv.ParseInt(c.Param("message_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid message ID")
	}

	if err := h.service.Delete(c.Request().Context(), messageID, auth.GetUserID(c), auth.IsAdmin(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchMessages handles GET /api/v1/channels/:id/messages/search.
func (h *MessageHandler) SearchMessages(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	results, err := h.service.Search(c.Request().Context(), channelID, auth.GetUserID(c), c.QueryParam("q"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

// AckMessages handles POST /api/v1/channels/:id/ack/:message_id.
func (h *MessageHandler) AckMessages(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}
	messageID, err := strconv.ParseInt(c.Param("message_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid message ID")
	}

	if err := h.service.Ack(c.Request().Context(), channelID, auth.GetUserID(c), messageID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Typing handles POST /api/v1/channels/:id/typing.
func (h *MessageHandler) Typing(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	if err := h.service.Typing(c.Request().Context(), channelID, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
