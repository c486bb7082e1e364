package repository

import (
	"fmt"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview() (DashboardOverviewRow, error)
	GetSalesTrend(startAt, endAt time.Time) ([]DashboardSalesTrendRow, error)
	GetCategoryRevenue() ([]DashboardCategoryRevenueRow, error)
	GetPendingActions() (DashboardPendingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	UsersTotal     int64
	ProductsTotal  int64
	ActiveProducts int64
	OrdersTotal    int64
	PaidOrders     int64
	Revenue        float64
}

// DashboardSalesTrendRow 每日销售统计
type DashboardSalesTrendRow struct {
	Day     string
	Orders  int64
	Revenue float64
}

// DashboardCategoryRevenueRow 分类销售额
type DashboardCategoryRevenueRow struct {
	Category string
	Quantity int64
	Revenue  float64
}

// DashboardPendingRow 待处理事项
type DashboardPendingRow struct {
	ProcessingOrders int64
	PendingPayments  int64
	OutOfStockSizes  int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func (r *GormDashboardRepository) liveOrders() *gorm.DB {
	return r.db.Model(&models.Order{}).Where("is_deleted = ?", false)
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview() (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	if err := r.db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&result.UsersTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).Where("is_deleted = ?", false).Count(&result.ProductsTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).
		Where("is_deleted = ? AND is_active = ?", false, true).
		Count(&result.ActiveProducts).Error; err != nil {
		return result, err
	}
	if err := r.liveOrders().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := r.liveOrders().Where("payment_status = ?", constants.PaymentStatusPaid).
		Count(&result.PaidOrders).Error; err != nil {
		return result, err
	}
	if err := r.liveOrders().Where("payment_status = ?", constants.PaymentStatusPaid).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetSalesTrend 按天统计已支付订单数与销售额
func (r *GormDashboardRepository) GetSalesTrend(startAt, endAt time.Time) ([]DashboardSalesTrendRow, error) {
	rows := make([]DashboardSalesTrendRow, 0)
	dayExpr := "CAST(date(created_at) AS TEXT)"
	if err := r.liveOrders().
		Select(fmt.Sprintf("%s as day, COUNT(*) as orders, COALESCE(SUM(total_price), 0) as revenue", dayExpr)).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", constants.PaymentStatusPaid, startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetCategoryRevenue 按分类统计已支付订单的销售额
func (r *GormDashboardRepository) GetCategoryRevenue() ([]DashboardCategoryRevenueRow, error) {
	rows := make([]DashboardCategoryRevenueRow, 0)
	if err := r.db.Table("order_items").
		Select("order_items.category as category, COALESCE(SUM(order_items.quantity), 0) as quantity, COALESCE(SUM(order_items.unit_price * order_items.quantity), 0) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ? AND orders.is_deleted = ?", constants.PaymentStatusPaid, false).
		Group("order_items.category").
		Order("revenue desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetPendingActions 统计待处理订单、待支付订单与缺货规格
func (r *GormDashboardRepository) GetPendingActions() (DashboardPendingRow, error) {
	result := DashboardPendingRow{}
	if err := r.liveOrders().Where("order_status = ?", constants.OrderStatusProcessing).
		Count(&result.ProcessingOrders).Error; err != nil {
		return result, err
	}
	if err := r.liveOrders().
		Where("payment_status = ? AND payment_method <> ?", constants.PaymentStatusPending, constants.PaymentMethodCOD).
		Count(&result.PendingPayments).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.ProductSize{}).
		Joins("JOIN products ON products.id = product_sizes.product_id").
		Where("product_sizes.in_stock = ? AND products.is_deleted = ?", false, false).
		Count(&result.OutOfStockSizes).Error; err != nil {
		return result, err
	}
	return result, nil
}
