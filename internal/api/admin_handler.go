package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/service"
)

// AdminHandler handles the admin console endpoints: user management and
// channel exports.
type AdminHandler struct {
	users  *service.UserService
	export *service.ExportService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(users *service.UserService, export *service.ExportService) *AdminHandler {
	return &AdminHandler{users: users, export: export}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset := parsePagination(c)
	includeDeactivated := c.QueryParam("include_deactivated") == "true"

	users, err := h.users.ListUsers(c.Request().Context(), includeDeactivated, limit, offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser handles PATCH /api/v1/admin/users/:id.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
	}

	var req service.AdminUserUpdate
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	user, err := h.users.AdminUpdateUser(c.Request().Context(), auth.GetUserID(c), targetID, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ExportChannel handles GET /api/v1/admin/channels/:id/export.
func (h *AdminHandler) ExportChannel(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid channel ID")
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "json"
	}

	contentType := echo.MIMEApplicationJSON
	if format == "csv" {
		contentType = "text/csv"
	}
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="channel-%d-export.%s"`, channelID, format))

	if err := h.export.Export(c.Request().Context(), channelID, format, c.Response()); err != nil {
		// Reset the disposition header before writing the error body.
		c.Response().Header().Del(echo.HeaderContentDisposition)
		return mapServiceError(c, err)
	}
	return nil
}
