package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/service"
)

// InvitationHandler handles the invitation endpoints: the public token
// routes used during onboarding and the admin management routes.
type InvitationHandler struct {
	service *service.InvitationService
}

// NewInvitationHandler creates an InvitationHandler.
func NewInvitationHandler(svc *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{service: svc}
}

// GetInvitation handles GET /api/v1/invitations/:token (public).
func (h *InvitationHandler) GetInvitation(c echo.Context) error {
	inv, err := h.service.GetByToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return mapServiceError(c, err)
	}

	// The public view never exposes who else has been invited.
	return c.JSON(http.StatusOK, map[string]any{
		"email":      inv.Email,
		"expires_at": inv.ExpiresAt,
	})
}

type acceptInvitationRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// AcceptInvitation handles POST /api/v1/invitations/:token/accept (public).
func (h *InvitationHandler) AcceptInvitation(c echo.Context) error {
	var req acceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	user, err := h.service.Accept(c.Request().Context(), c.Param("token"), req.Username, req.Password, req.DisplayName)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

type createInvitationRequest struct {
	Email string `json:"email"`
}

// CreateInvitation handles POST /api/v1/admin/invitations (admin).
func (h *InvitationHandler) CreateInvitation(c echo.Context) error {
	var req createInvitationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	inv, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req.Email)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

// ListInvitations handles GET /api/v1/admin/invitations (admin).
func (h *InvitationHandler) ListInvitations(c echo.Context) error {
	invs, err := h.service.List(c.Request().Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, invs)
}

// CancelInvitation handles DELETE /api/v1/admin/invitations/:id (admin).
func (h *InvitationHandler) CancelInvitation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "INVALID_ID", "invalid invitation ID")
	}

	if err := h.service.Cancel(c.Request().Context(), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
