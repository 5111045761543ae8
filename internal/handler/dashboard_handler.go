package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-backoffice/internal/service"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}

	data, err := h.service.GetStockMovement(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GetSalesSummary totals invoices issued in the last days (default 30).
func (h *DashboardHandler) GetSalesSummary(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	summary, err := h.service.GetSalesSummary(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   summary,
	})
}
