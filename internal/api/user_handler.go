package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/gateway"
	"github.com/drystore/nexus/internal/service"
)

// UserHandler handles the current user's account, notifications and
// read states.
type UserHandler struct {
	users         *service.UserService
	notifications *service.NotificationService
	presence      *gateway.PresenceService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, notifications *service.NotificationService, presence *gateway.PresenceService) *UserHandler {
	return &UserHandler{users: users, notifications: notifications, presence: presence}
}

// GetMe handles GET /api/v1/users/@me.
func (h *UserHandler) GetMe(c echo.Context) error {
	me, err := h.users.GetMe(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, me)
}

// UpdateMe handles PATCH /api/v1/users/@me.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req service.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	profile, err := h.users.UpdateProfile(c.Request().Context(), auth.GetUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetNotifications handles GET /api/v1/users/@me/notifications.
func (h *UserHandler) GetNotifications(c echo.Context) error {
	summary, err := h.notifications.Summary(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GetPresence handles GET /api/v1/users/:id/presence.
func (h *UserHandler) GetPresence(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
	}

	status, err := h.presence.GetPresence(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to get presence")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

// GetReadStates handles GET /api/v1/users/@me/read-states.
func (h *UserHandler) GetReadStates(c echo.Context) error {
	states, err := h.notifications.ReadStates(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, states)
}

func parsePagination(c echo.Context) (limit, offset int) {
	limit = 50
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}
