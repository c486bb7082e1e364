package repository

import (
	"errors"
	"strings"

	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// BlogRepository 博客数据访问接口
type BlogRepository interface {
	List(filter BlogListFilter) ([]models.Blog, int64, error)
	GetByID(id uint) (*models.Blog, error)
	Create(blog *models.Blog) error
	Update(blog *models.Blog) error
	SoftDelete(id uint) error
	Delete(id uint) error
}

// GormBlogRepository GORM 实现
type GormBlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository 创建博客仓库
func NewBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

// List 博客列表，公开列表只返回展示中的文章
func (r *GormBlogRepository) List(filter BlogListFilter) ([]models.Blog, int64, error) {
	var blogs []models.Blog
	query := r.db.Model(&models.Blog{}).Where("is_deleted = ?", false)
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&blogs).Error; err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// GetByID 获取文章
func (r *GormBlogRepository) GetByID(id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

// Create 创建文章
func (r *GormBlogRepository) Create(blog *models.Blog) error {
	return r.db.Create(blog).Error
}

// Update 更新文章
func (r *GormBlogRepository) Update(blog *models.Blog) error {
	return r.db.Save(blog).Error
}

// SoftDelete 软删除文章
func (r *GormBlogRepository) SoftDelete(id uint) error {
	return r.db.Model(&models.Blog{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error
}

// Delete 物理删除文章
func (r *GormBlogRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&models.Blog{}).Error
}
