package admin

import (
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats 仪表盘汇总（带缓存）
func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.DashboardService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, stats)
}

// GetDashboardSalesTrend 销售趋势
func (h *Handler) GetDashboardSalesTrend(c *gin.Context) {
	points, err := h.DashboardService.SalesTrend()
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, points)
}

// GetDashboardCategoryRevenue 分类营收
func (h *Handler) GetDashboardCategoryRevenue(c *gin.Context) {
	rows, err := h.DashboardService.CategoryRevenue()
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, rows)
}

// GetDashboardPendingActions 待处理事项
func (h *Handler) GetDashboardPendingActions(c *gin.Context) {
	pending, err := h.DashboardService.PendingActions()
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, pending)
}

// GetDashboardActivities 最近动态
func (h *Handler) GetDashboardActivities(c *gin.Context) {
	activities, err := h.DashboardService.LatestActivities()
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, activities)
}
