package service

import (
	"context"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

const (
	dashboardTrendDays      = 7
	dashboardActivitiesSize = 10
	dashboardStatsCacheKey  = "admin_dashboard:stats"
)

// DashboardService 管理端仪表盘服务
type DashboardService struct {
	repo      repository.DashboardRepository
	orderRepo repository.OrderRepository
	store     cache.Store
	ttl       time.Duration
	now       func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, orderRepo repository.OrderRepository, store cache.Store, ttl time.Duration) *DashboardService {
	return &DashboardService{
		repo:      repo,
		orderRepo: orderRepo,
		store:     store,
		ttl:       ttl,
		now:       time.Now,
	}
}

// DashboardStats 总览指标
type DashboardStats struct {
	UsersTotal     int64  `json:"users_total"`
	ProductsTotal  int64  `json:"products_total"`
	ActiveProducts int64  `json:"active_products"`
	OrdersTotal    int64  `json:"orders_total"`
	PaidOrders     int64  `json:"paid_orders"`
	Revenue        string `json:"revenue"`
}

// DashboardTrendPoint 单日销售点
type DashboardTrendPoint struct {
	Date    string `json:"date"`
	Orders  int64  `json:"orders"`
	Revenue string `json:"revenue"`
}

// DashboardCategoryRevenue 分类销售额
type DashboardCategoryRevenue struct {
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
	Revenue  string `json:"revenue"`
}

// DashboardPendingActions 待处理事项
type DashboardPendingActions struct {
	ProcessingOrders int64 `json:"processing_orders"`
	PendingPayments  int64 `json:"pending_payments"`
	OutOfStockSizes  int64 `json:"out_of_stock_sizes"`
}

// DashboardActivity 最新动态
type DashboardActivity struct {
	OrderID       uint      `json:"order_id"`
	UserID        uint      `json:"user_id"`
	Customer      string    `json:"customer"`
	TotalPrice    string    `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	OrderStatus   string    `json:"order_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Stats 获取总览统计
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var cached DashboardStats
	if hit, err := cache.GetJSON(ctx, s.store, dashboardStatsCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	row, err := s.repo.GetOverview()
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{
		UsersTotal:     row.UsersTotal,
		ProductsTotal:  row.ProductsTotal,
		ActiveProducts: row.ActiveProducts,
		OrdersTotal:    row.OrdersTotal,
		PaidOrders:     row.PaidOrders,
		Revenue:        models.NewMoneyFromFloat(row.Revenue).String(),
	}
	if err := cache.SetJSON(ctx, s.store, dashboardStatsCacheKey, stats, s.ttl); err != nil {
		logger.Warnw("dashboard_stats_cache_set_failed", "error", err)
	}
	return stats, nil
}

// SalesTrend 最近 7 天销售趋势，无数据的日期补零
func (s *DashboardService) SalesTrend() ([]DashboardTrendPoint, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startAt := todayStart.AddDate(0, 0, -(dashboardTrendDays - 1))
	endAt := todayStart.AddDate(0, 0, 1)

	rows, err := s.repo.GetSalesTrend(startAt, endAt)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]repository.DashboardSalesTrendRow, len(rows))
	for _, row := range rows {
		byDay[normalizeTrendDay(row.Day)] = row
	}

	points := make([]DashboardTrendPoint, 0, dashboardTrendDays)
	for i := 0; i < dashboardTrendDays; i++ {
		day := startAt.AddDate(0, 0, i).Format("2006-01-02")
		row := byDay[day]
		points = append(points, DashboardTrendPoint{
			Date:    day,
			Orders:  row.Orders,
			Revenue: models.NewMoneyFromFloat(row.Revenue).String(),
		})
	}
	return points, nil
}

// CategoryRevenue 已支付订单按分类的销售额
func (s *DashboardService) CategoryRevenue() ([]DashboardCategoryRevenue, error) {
	rows, err := s.repo.GetCategoryRevenue()
	if err != nil {
		return nil, err
	}
	result := make([]DashboardCategoryRevenue, 0, len(rows))
	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = "Uncategorized"
		}
		result = append(result, DashboardCategoryRevenue{
			Category: category,
			Quantity: row.Quantity,
			Revenue:  models.NewMoneyFromFloat(row.Revenue).String(),
		})
	}
	return result, nil
}

// PendingActions 待处理事项
func (s *DashboardService) PendingActions() (*DashboardPendingActions, error) {
	row, err := s.repo.GetPendingActions()
	if err != nil {
		return nil, err
	}
	return &DashboardPendingActions{
		ProcessingOrders: row.ProcessingOrders,
		PendingPayments:  row.PendingPayments,
		OutOfStockSizes:  row.OutOfStockSizes,
	}, nil
}

// LatestActivities 最新订单动态
func (s *DashboardService) LatestActivities() ([]DashboardActivity, error) {
	orders, _, err := s.orderRepo.ListAdmin(repository.OrderListFilter{Page: 1, PageSize: dashboardActivitiesSize})
	if err != nil {
		return nil, err
	}
	activities := make([]DashboardActivity, 0, len(orders))
	for _, order := range orders {
		activity := DashboardActivity{
			OrderID:       order.ID,
			UserID:        order.UserID,
			TotalPrice:    order.TotalPrice.String(),
			PaymentMethod: order.PaymentMethod,
			PaymentStatus: order.PaymentStatus,
			OrderStatus:   order.OrderStatus,
			CreatedAt:     order.CreatedAt,
		}
		if order.User != nil {
			activity.Customer = order.User.FullName()
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

// InvalidateStats 清理总览缓存
func (s *DashboardService) InvalidateStats(ctx context.Context) {
	_ = cache.Del(ctx, s.store, dashboardStatsCacheKey)
}

// sqlite 返回 2006-01-02，postgres 可能带时间部分
func normalizeTrendDay(day string) string {
	if len(day) >= 10 {
		return day[:10]
	}
	return day
}
