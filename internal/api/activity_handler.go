package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/service"
)

// ActivityHandler handles the activity feed endpoint.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// GetFeed handles GET /api/v1/activity.
func (h *ActivityHandler) GetFeed(c echo.Context) error {
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

	entries, err := h.service.Feed(c.Request().Context(), before, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
