package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kharcha/internal/services/dashboard"
	"kharcha/internal/utils"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return utils.BadRequest(c, "from must be YYYY-MM-DD")
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return utils.BadRequest(c, "to must be YYYY-MM-DD")
	}
	var categories []string
	if raw := c.Query("categories"); raw != "" {
		categories = strings.Split(raw, ",")
	}

	summary, err := h.dashboardService.GetSummary(c.Context(), claims.UserID, from, to, categories)
	if err != nil {
		return utils.InternalError(c, "Failed to build summary")
	}
	return utils.Success(c, fiber.Map{"summary": summary})
}
