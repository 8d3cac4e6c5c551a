package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/service"
)

// ChannelHandler handles channel CRUD and membership endpoints.
type ChannelHandler struct {
	service *service.ChannelService
}

// NewChannelHandler creates a ChannelHandler.
func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{service: svc}
}

type createChannelRequest struct {
	Name      string  `json:"name"`
	Topic     *string `json:"topic"`
	IsPrivate bool    `json:"is_private"`
}

// CreateChannel handles POST /api/v1/channels.
func (h *ChannelHandler) CreateChannel(c echo.Context) error {
	var req createChannelRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	channel, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req.Name, req.Topic, req.IsPrivate)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, channel)
}

// ListChannels handles GET /api/v1/channels.
func (h *ChannelHandler) ListChannels(c echo.Context) error {
	channels, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, channels)
}

// ListConversations handles GET /api/v1/conversations.
func (h *ChannelHandler) ListConversations(c echo.Context) error {
	convs, err := h.service.Conversations(c.Request().Context(), auth.GetUserID(c), c.QueryParam("q"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, convs)
}

// GetChannel handles GET /api/v1/channels/:id.
func (h *ChannelHandler) GetChannel(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	channel, err := h.service.Get(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, channel)
}

type updateChannelRequest struct {
	Name  *string `json:"name"`
	Topic *string `json:"topic"`
}

// UpdateChannel handles PATCH /api/v1/channels/:id.
func (h *ChannelHandler) UpdateChannel(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	var req updateChannelRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	channel, err := h.service.Update(c.Request().Context(), channelID, auth.GetUserID(c), req.Name, req.Topic)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, channel)
}

// DeleteChannel handles DELETE /api/v1/channels/:id.
func (h *ChannelHandler) DeleteChannel(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	if err := h.service.Delete(c.Request().Context(), channelID, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// JoinChannel handles PUT /api/v1/channels/:id/members/@me.
func (h *ChannelHandler) JoinChannel(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	member, err := h.service.Join(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

// LeaveChannel handles DELETE /api/v1/channels/:id/members/@me.
func (h *ChannelHandler) LeaveChannel(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	if err := h.service.Leave(c.Request().Context(), channelID, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type addMemberRequest struct {
	UserID int64 `json:"user_id,string"`
}

// AddMember handles POST /api/v1/channels/:id/members.
func (h *ChannelHandler) AddMember(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	member, err := h.service.AddMember(c.Request().Context(), channelID, auth.GetUserID(c), req.UserID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, member)
}

// ListMembers handles GET /api/v1/channels/:id/members.
func (h *ChannelHandler) ListMembers(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	members, err := h.service.Members(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

type setRoleRequest struct {
	Role models.MemberRole `json:"role"`
}

// SetMemberRole handles PATCH /api/v1/channels/:id/members/:user_id/role.
func (h *ChannelHandler) SetMemberRole(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}
	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
	}

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	if err := h.service.SetMemberRole(c.Request().Context(), channelID, auth.GetUserID(c), targetID, req.Role); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
