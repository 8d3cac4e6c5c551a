package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/service"
)

// DocumentHandler handles knowledge-base document endpoints.
type DocumentHandler struct {
	service *service.DocumentService
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// CreateDocument handles POST /api/v1/documents.
func (h *DocumentHandler) CreateDocument(c echo.Context) error {
	var req service.DocumentInput
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	doc, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles GET /api/v1/documents.
func (h *DocumentHandler) ListDocuments(c echo.Context) error {
	docs, err := h.service.List(c.Request().Context(), c.QueryParam("category"), auth.IsAdmin(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, docs)
}

// GetDocument handles GET /api/v1/documents/:id.
func (h *DocumentHandler) GetDocument(c echo.Context) error {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
	}

	doc, err := h.service.Get(c.Request().Context(), documentID, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

type updateDocumentRequest struct {
	service.DocumentInput
	Version int `json:"version"`
}

// UpdateDocument handles PUT /api/v1/documents/:id. The request must carry
// the version it was edited from; a stale version is rejected with 409.
func (h *DocumentHandler) UpdateDocument(c echo.Context) error {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
	}

	var req updateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	doc, err := h.service.Update(c.Request().Context(), documentID, auth.GetUserID(c), auth.IsAdmin(c), req.Version, req.DocumentInput)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/v1/documents/:id (admin).
func (h *DocumentHandler) DeleteDocument(c echo.Context) error {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
	}

	if err := h.service.Delete(c.Request().Context(), documentID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkScrolled handles POST /api/v1/documents/:id/scrolled.
func (h *DocumentHandler) MarkScrolled(c echo.Context) error {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
	}

	if err := h.service.MarkScrolled(c.Request().Context(), documentID, auth.GetUserID(c), auth.IsAdmin(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ConfirmRead handles POST /api/v1/documents/:id/confirm.
func (h *DocumentHandler) ConfirmRead(c echo.Context) error {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
	}

	if err := h.service.Confirm(c.Request().Context(), documentID, auth.GetUserID(c), auth.IsAdmin(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReadProgress handles GET /api/v1/documents/:id/progress.
func (h *DocumentHandler) GetReadProgress(c echo.Context) error {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
	}

	read, err := h.service.ReadProgress(c.Request().Context(), documentID, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, read)
}

// GetReaders handles GET /api/v1/documents/:id/readers (admin).
func (h *DocumentHandler) GetReaders(c echo.Context) error {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
	}

	readers, err := h.service.Readers(c.Request().Context(), documentID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, readers)
}
