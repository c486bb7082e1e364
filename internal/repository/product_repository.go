package repository

import (
	"errors"
	"strings"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Transaction(fn func(tx *gorm.DB) error) error
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	ListSimilar(category string, excludeID uint, limit int) ([]models.Product, error)
	ListRecommendations(excludeIDs []uint, limit int) ([]models.Product, error)
	ListBestSellers(limit int) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	ReplaceSizes(productID uint, sizes []models.ProductSize) error
	Delete(ids []uint) error
	SoftDelete(id uint) error
	PurgeSoftDeleted() (int64, error)
	SetActive(id uint, active bool) error
	SetCertified(id uint, certified bool, image string) error
	CreateEmbeddedReview(review *models.ProductReview) error
	UpdateEmbeddedReview(reviewID uint, rating int, comment string) error
	DeleteEmbeddedReview(reviewID uint) error
	RefreshRatingStats(productID uint) error
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func preloadSizes(query *gorm.DB) *gorm.DB {
	return query.Preload("Sizes", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc, id asc")
	})
}

func onlyVisible(query *gorm.DB) *gorm.DB {
	return query.Where("is_active = ? AND is_deleted = ?", true, false)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = onlyVisible(query)
	} else if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		operator := likeOperatorByDialect(dbDialectName(r.db))
		query = query.Where(
			"name "+operator+" ? OR category "+operator+" ? OR description "+operator+" ?",
			repeatLikeArgs(like, 3)...,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := preloadSizes(query).Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品（含规格与内嵌评论）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, nil
	}
	var product models.Product
	query := preloadSizes(r.db).Preload("Reviews", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at desc")
	})
	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := preloadSizes(r.db).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListSimilar 同分类的其他商品
func (r *GormProductRepository) ListSimilar(category string, excludeID uint, limit int) ([]models.Product, error) {
	var products []models.Product
	query := onlyVisible(r.db.Model(&models.Product{})).
		Where("category = ? AND id <> ?", category, excludeID)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := preloadSizes(query).Order("rating DESC, id DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListRecommendations 推荐商品：上架、未删除、排除指定 ID，按评分降序
func (r *GormProductRepository) ListRecommendations(excludeIDs []uint, limit int) ([]models.Product, error) {
	var products []models.Product
	query := onlyVisible(r.db.Model(&models.Product{}))
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := preloadSizes(query).Order("rating DESC, id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListBestSellers 已支付订单中销量最高的商品
func (r *GormProductRepository) ListBestSellers(limit int) ([]models.Product, error) {
	type soldRow struct {
		ProductID uint
		Sold      int64
	}
	var rows []soldRow
	query := r.db.Table("order_items").
		Select("order_items.product_id as product_id, SUM(order_items.quantity) as sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ? AND orders.is_deleted = ?", constants.PaymentStatusPaid, false).
		Group("order_items.product_id").
		Order("sold DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.Product{}, nil
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := r.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	result := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if product, ok := byID[id]; ok && product.IsActive && !product.IsDeleted {
			result = append(result, product)
		}
	}
	return result, nil
}

// Create 创建商品（连同规格）
func (r *GormProductRepository) Create(product *models.Product) error {
	for i := range product.Sizes {
		product.Sizes[i].Position = i
	}
	return r.db.Omit("Reviews").Create(product).Error
}

// Update 更新商品基础字段
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Omit("Sizes", "Reviews").Save(product).Error
}

// ReplaceSizes 替换商品规格
func (r *GormProductRepository) ReplaceSizes(productID uint, sizes []models.ProductSize) error {
	if err := r.db.Where("product_id = ?", productID).Delete(&models.ProductSize{}).Error; err != nil {
		return err
	}
	if len(sizes) == 0 {
		return nil
	}
	for i := range sizes {
		sizes[i].ID = 0
		sizes[i].ProductID = productID
		sizes[i].Position = i
	}
	return r.db.Create(&sizes).Error
}

// Delete 物理删除商品及其规格与内嵌评论
func (r *GormProductRepository) Delete(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Where("product_id IN ?", ids).Delete(&models.ProductSize{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("product_id IN ?", ids).Delete(&models.ProductReview{}).Error; err != nil {
		return err
	}
	return r.db.Where("id IN ?", ids).Delete(&models.Product{}).Error
}

// SoftDelete 软删除商品
func (r *GormProductRepository) SoftDelete(id uint) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error
}

// PurgeSoftDeleted 清理全部软删除商品
func (r *GormProductRepository) PurgeSoftDeleted() (int64, error) {
	var ids []uint
	if err := r.db.Model(&models.Product{}).Where("is_deleted = ?", true).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if err := r.Delete(ids); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// SetActive 上下架
func (r *GormProductRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).Update("is_active", active).Error
}

// SetCertified 设置认证标记
func (r *GormProductRepository) SetCertified(id uint, certified bool, image string) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_certified": certified, "certified_image": image}).Error
}

// CreateEmbeddedReview 写入商品内嵌评论副本
func (r *GormProductRepository) CreateEmbeddedReview(review *models.ProductReview) error {
	return r.db.Create(review).Error
}

// UpdateEmbeddedReview 同步内嵌评论副本
func (r *GormProductRepository) UpdateEmbeddedReview(reviewID uint, rating int, comment string) error {
	return r.db.Model(&models.ProductReview{}).Where("review_id = ?", reviewID).
		Updates(map[string]interface{}{"rating": rating, "comment": comment}).Error
}

// DeleteEmbeddedReview 删除内嵌评论副本
func (r *GormProductRepository) DeleteEmbeddedReview(reviewID uint) error {
	return r.db.Where("review_id = ?", reviewID).Delete(&models.ProductReview{}).Error
}

// RefreshRatingStats 按内嵌评论重算评分与评论数
func (r *GormProductRepository) RefreshRatingStats(productID uint) error {
	type statRow struct {
		Total int64
		Avg   float64
	}
	var row statRow
	if err := r.db.Model(&models.ProductReview{}).
		Select("COUNT(*) as total, COALESCE(AVG(rating), 0) as avg").
		Where("product_id = ?", productID).
		Scan(&row).Error; err != nil {
		return err
	}
	return r.db.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{"rating": row.Avg, "num_reviews": row.Total}).Error
}
