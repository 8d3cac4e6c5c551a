package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/service"
)

// AnnouncementHandler handles announcement endpoints.
type AnnouncementHandler struct {
	service *service.AnnouncementService
}

// NewAnnouncementHandler creates an AnnouncementHandler.
func NewAnnouncementHandler(svc *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc}
}

// CreateAnnouncement handles POST /api/v1/announcements (admin).
func (h *AnnouncementHandler) CreateAnnouncement(c echo.Context) error {
	var req service.AnnouncementInput
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	ann, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, ann)
}

// ListAnnouncements handles GET /api/v1/announcements.
func (h *AnnouncementHandler) ListAnnouncements(c echo.Context) error {
	limit, offset := parsePagination(c)

	anns, err := h.service.List(c.Request().Context(), auth.GetUserID(c), limit, offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, anns)
}

// GetAnnouncement handles GET /api/v1/announcements/:id.
func (h *AnnouncementHandler) GetAnnouncement(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid announcement ID")
	}

	ann, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ann)
}

// UpdateAnnouncement handles PATCH /api/v1/announcements/:id (admin).
func (h *AnnouncementHandler) UpdateAnnouncement(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid announcement ID")
	}

	var req service.AnnouncementInput
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	ann, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ann)
}

// DeleteAnnouncement handles DELETE /api/v1/announcements/:id (admin).
func (h *AnnouncementHandler) DeleteAnnouncement(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid announcement ID")
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkRead handles POST /api/v1/announcements/:id/read.
func (h *AnnouncementHandler) MarkRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid announcement ID")
	}

	if err := h.service.MarkRead(c.Request().Context(), id, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
