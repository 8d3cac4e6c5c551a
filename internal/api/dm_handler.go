package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/service"
)

// DMHandler handles direct message channel endpoints.
type DMHandler struct {
	service *service.DMService
}

// NewDMHandler creates a DMHandler.
func NewDMHandler(svc *service.DMService) *DMHandler {
	return &DMHandler{service: svc}
}

type openDMRequest struct {
	RecipientID int64 `json:"recipient_id,string"`
}

// OpenDM handles POST /api/v1/dms.
func (h *DMHandler) OpenDM(c echo.Context) error {
	var req openDMRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	dm, err := h.service.GetOrCreate(c.Request().Context(), auth.GetUserID(c), req.RecipientID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dm)
}

// ListDMs handles GET /api/v1/dms.
func (h *DMHandler) ListDMs(c echo.Context) error {
	dms, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dms)
}
