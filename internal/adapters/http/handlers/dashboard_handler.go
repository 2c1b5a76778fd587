package handlers

import (
	"errors"

	"workclock/internal/adapters/http/middleware"
	"workclock/internal/core/domain"
	"workclock/internal/core/services"
	"workclock/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Admin returns today's attendance breakdown and pending queues
// @Summary Admin dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	summary, err := h.dashboardService.AdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}
	return response.Success(c, "Dashboard retrieved successfully", summary)
}

// Me returns the current user's monthly attendance summary
// @Summary My dashboard
// @Description Monthly summary; month query has layout YYYY-MM and defaults to the current month
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month (YYYY-MM)"
// @Success 200 {object} response.Response
// @Router /dashboard/me [get]
func (h *DashboardHandler) Me(c *fiber.Ctx) error {
	summary, err := h.dashboardService.MyDashboard(c.Context(),
		middleware.CurrentUserID(c), c.Query("month"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Invalid month, expected YYYY-MM")
		}
		return response.InternalServerError(c, "Failed to build dashboard")
	}
	return response.Success(c, "Dashboard retrieved successfully", summary)
}
