package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kharcha/internal/services/audit"
	"kharcha/internal/utils"
)

type AuditHandler struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

func (h *AuditHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	events, err := h.auditService.List(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list audit events")
	}
	return utils.Success(c, fiber.Map{"events": events})
}
