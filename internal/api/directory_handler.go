package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/service"
)

// DirectoryHandler handles the people directory and positions.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: svc}
}

// Search handles GET /api/v1/directory.
func (h *DirectoryHandler) Search(c echo.Context) error {
	limit, offset := parsePagination(c)

	entries, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), limit, offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// ListPositions handles GET /api/v1/positions.
func (h *DirectoryHandler) ListPositions(c echo.Context) error {
	positions, err := h.service.ListPositions(c.Request().Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, positions)
}

type positionRequest struct {
	Title      string `json:"title"`
	Department string `json:"department"`
}

// CreatePosition handles POST /api/v1/positions (admin).
func (h *DirectoryHandler) CreatePosition(c echo.Context) error {
	var req positionRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	pos, err := h.service.CreatePosition(c.Request().Context(), req.Title, req.Department)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, pos)
}

// UpdatePosition handles PATCH /api/v1/positions/:id (admin).
func (h *DirectoryHandler) UpdatePosition(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid position ID")
	}

	var req positionRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	pos, err := h.service.UpdatePosition(c.Request().Context(), id, req.Title, req.Department)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, pos)
}

// DeletePosition handles DELETE /api/v1/positions/:id (admin).
func (h *DirectoryHandler) DeletePosition(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid position ID")
	}

	if err := h.service.DeletePosition(c.Request().Context(), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
