package repository

import (
	"errors"
	"strings"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// UserOrderStatRow 用户已支付订单统计
type UserOrderStatRow struct {
	UserID     uint
	PaidOrders int64
	TotalSpent float64
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	List(filter UserListFilter) ([]models.User, int64, error)
	ListPaidOrderStats(userIDs []uint) (map[uint]UserOrderStatRow, error)
	SetDeleted(userIDs []uint, deleted bool) error
	SetActive(userID uint, active bool) error
	Delete(userIDs []uint) error
	BumpTokenVersion(userID uint) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.firstWhere("email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetByPhone 根据手机号获取用户
func (r *GormUserRepository) GetByPhone(phone string) (*models.User, error) {
	return r.firstWhere("phone = ?", strings.TrimSpace(phone))
}

func (r *GormUserRepository) firstWhere(query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		operator := likeOperatorByDialect(dbDialectName(r.db))
		query = query.Where(
			"email "+operator+" ? OR phone "+operator+" ? OR first_name "+operator+" ? OR last_name "+operator+" ?",
			repeatLikeArgs(like, 4)...,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var users []models.User
	if err := query.Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListPaidOrderStats 批量统计用户已支付订单数与消费额
func (r *GormUserRepository) ListPaidOrderStats(userIDs []uint) (map[uint]UserOrderStatRow, error) {
	result := make(map[uint]UserOrderStatRow, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var rows []UserOrderStatRow
	if err := r.db.Model(&models.Order{}).
		Select("user_id, COUNT(*) as paid_orders, COALESCE(SUM(total_price), 0) as total_spent").
		Where("user_id IN ? AND payment_status = ? AND is_deleted = ?", userIDs, constants.PaymentStatusPaid, false).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = row
	}
	return result, nil
}

// SetDeleted 批量设置软删除标记，软删除时同时失效已签发 Token
func (r *GormUserRepository) SetDeleted(userIDs []uint, deleted bool) error {
	if len(userIDs) == 0 {
		return nil
	}
	updates := map[string]interface{}{"is_deleted": deleted}
	if deleted {
		updates["is_active"] = false
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	return r.db.Model(&models.User{}).Where("id IN ?", userIDs).Updates(updates).Error
}

// SetActive 启用/停用账号
func (r *GormUserRepository) SetActive(userID uint, active bool) error {
	updates := map[string]interface{}{"is_active": active}
	if active {
		updates["is_deleted"] = false
	} else {
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// Delete 物理删除用户
func (r *GormUserRepository) Delete(userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", userIDs).Delete(&models.User{}).Error
}

// BumpTokenVersion 递增 Token 版本，使已签发 Token 失效
func (r *GormUserRepository) BumpTokenVersion(userID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}
