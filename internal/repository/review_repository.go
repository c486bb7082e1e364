package repository

import (
	"errors"

	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 评论数据访问接口
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	Update(review *models.Review) error
	Delete(id uint) error
	ListByProduct(productID uint) ([]models.Review, error)
	GetLike(reviewID, userID uint) (*models.ReviewLike, error)
	CreateLike(like *models.ReviewLike) error
	DeleteLike(reviewID, userID uint) error
	WithTx(tx *gorm.DB) *GormReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) *GormReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Create 创建评论
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Omit("Likes", "User").Create(review).Error
}

// GetByID 获取评论（含点赞）
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Preload("Likes").Preload("User").First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Update 更新评分与内容
func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Model(&models.Review{}).Where("id = ?", review.ID).
		Updates(map[string]interface{}{"rating": review.Rating, "message": review.Message}).Error
}

// Delete 删除评论与点赞
func (r *GormReviewRepository) Delete(id uint) error {
	if err := r.db.Where("review_id = ?", id).Delete(&models.ReviewLike{}).Error; err != nil {
		return err
	}
	return r.db.Where("id = ?", id).Delete(&models.Review{}).Error
}

// ListByProduct 商品评论列表
func (r *GormReviewRepository) ListByProduct(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Preload("Likes").Where("product_id = ?", productID).
		Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetLike 获取点赞记录
func (r *GormReviewRepository) GetLike(reviewID, userID uint) (*models.ReviewLike, error) {
	var like models.ReviewLike
	if err := r.db.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

// CreateLike 点赞
func (r *GormReviewRepository) CreateLike(like *models.ReviewLike) error {
	return r.db.Create(like).Error
}

// DeleteLike 取消点赞
func (r *GormReviewRepository) DeleteLike(reviewID, userID uint) error {
	return r.db.Where("review_id = ? AND user_id = ?", reviewID, userID).Delete(&models.ReviewLike{}).Error
}
