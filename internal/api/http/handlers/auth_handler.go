package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/api/dto"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/auth"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/domain"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/service"
	apperrors "github.com/deepkumarpeerislands/smart-onboarding-service-sub007/pkg/util"
)

// AuthHandler exposes the role-switch surface.
type AuthHandler struct {
	switcher *service.RoleSwitchService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(switcher *service.RoleSwitchService) *AuthHandler {
	return &AuthHandler{switcher: switcher}
}

// SwitchRole handles POST /api/v1/auth/switch-role.
func (h *AuthHandler) SwitchRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SwitchRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RequestedRole == "" {
		return apperrors.NewValidationError("requestedRole required", map[string]string{"requestedRole": "required"})
	}

	result, err := h.switcher.SwitchRole(c.UserContext(), principal, req.RequestedRole)
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		if apperrors.IsBusinessFailure(domainErr) {
			// Business outcomes travel as plain 200 envelopes.
			return c.JSON(dto.Error(domainErr.Message, map[string]string{"code": domainErr.Code}))
		}
		return domainErr
	}

	return c.Status(http.StatusOK).JSON(dto.Success("role switched", dto.SwitchRoleData{
		Username:   result.Username,
		FirstName:  result.FirstName,
		LastName:   result.LastName,
		ActiveRole: result.ActiveRole,
		Roles:      result.Roles,
		Token:      result.Token,
		Email:      result.Email,
	}))
}

// CurrentSession handles GET /api/v1/auth/session. Clients use it to re-sync
// after a failed switch, when the persisted role may already have changed.
func (h *AuthHandler) CurrentSession(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	kind := "basic"
	if principal.Kind == domain.PrincipalEnriched {
		kind = "enriched"
	}

	return c.JSON(dto.Success("current session", dto.SessionData{
		Email:     principal.Email,
		SessionID: principal.CurrentSessionID(),
		Roles:     principal.AvailableRoles(),
		Kind:      kind,
	}))
}
