package api

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/service"
)

// UploadHandler handles file upload and download endpoints.
type UploadHandler struct {
	service *service.UploadService
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

func formFile(c echo.Context) (*multipart.FileHeader, multipart.File, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, nil, Error(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
	}
	src, err := file.Open()
	if err != nil {
		return nil, nil, Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to read upload")
	}
	return file, src, nil
}

// UploadAttachment handles POST /api/v1/uploads/attachments.
func (h *UploadHandler) UploadAttachment(c echo.Context) error {
	file, src, err := formFile(c)
	if err != nil {
		return err
	}
	defer src.Close()

	att, svcErr := h.service.UploadAttachment(c.Request().Context(), auth.GetUserID(c),
		filepath.Base(file.Filename), file.Header.Get("Content-Type"), file.Size, src)
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(http.StatusCreated, att)
}

// UploadDocumentAttachment handles POST /api/v1/documents/:id/attachments.
func (h *UploadHandler) UploadDocumentAttachment(c echo.Context) error {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
	}

	file, src, err := formFile(c)
	if err != nil {
		return err
	}
	defer src.Close()

	att, svcErr := h.service.UploadDocumentAttachment(c.Request().Context(), auth.GetUserID(c), documentID,
		filepath.Base(file.Filename), file.Header.Get("Content-Type"), file.Size, src)
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(http.StatusCreated, att)
}

// UploadAvatar handles POST /api/v1/users/@me/avatar.
func (h *UploadHandler) UploadAvatar(c echo.Context) error {
	file, src, err := formFile(c)
	if err != nil {
		return err
	}
	defer src.Close()

	profile, svcErr := h.service.UploadAvatar(c.Request().Context(), auth.GetUserID(c),
		filepath.Base(file.Filename), file.Header.Get("Content-Type"), file.Size, src)
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(http.StatusOK, profile)
}

// UploadAnnouncementImage handles POST /api/v1/announcements/:id/image (admin).
func (h *UploadHandler) UploadAnnouncementImage(c echo.Context) error {
	announcementID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid announcement ID")
	}

	file, src, err := formFile(c)
	if err != nil {
		return err
	}
	defer src.Close()

	ann, svcErr := h.service.UploadAnnouncementImage(c.Request().Context(), announcementID,
		filepath.Base(file.Filename), file.Header.Get("Content-Type"), file.Size, src)
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(http.StatusOK, ann)
}

// GetDownloadURL handles GET /api/v1/attachments/:id/url.
func (h *UploadHandler) GetDownloadURL(c echo.Context) error {
	attachmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid attachment ID")
	}

	url, svcErr := h.service.DownloadURL(c.Request().Context(), attachmentID)
	if svcErr != nil {
		return mapServiceError(c, svcErr)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
