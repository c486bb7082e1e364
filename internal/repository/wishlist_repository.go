package repository

import (
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// WishlistRepository 心愿单数据访问接口
type WishlistRepository interface {
	Exists(userID, productID uint) (bool, error)
	Create(item *models.Wishlist) error
	Delete(userID, productID uint) (int64, error)
	ListByUser(userID uint) ([]models.Wishlist, error)
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建心愿单仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// Exists 判断商品是否已在心愿单
func (r *GormWishlistRepository) Exists(userID, productID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Wishlist{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 加入心愿单
func (r *GormWishlistRepository) Create(item *models.Wishlist) error {
	return r.db.Omit("Product").Create(item).Error
}

// Delete 移出心愿单
func (r *GormWishlistRepository) Delete(userID, productID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Wishlist{})
	return result.RowsAffected, result.Error
}

// ListByUser 用户心愿单
func (r *GormWishlistRepository) ListByUser(userID uint) ([]models.Wishlist, error) {
	var items []models.Wishlist
	err := r.db.
		Preload("Product").
		Preload("Product.Sizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
