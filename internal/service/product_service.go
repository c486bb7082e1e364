package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	similarProductLimit = 4
	bestSellerLimit     = 5
)

// ProductService 商品业务服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ProductInput 创建/更新商品输入；Sizes 为原始 JSON，nil 表示不修改
type ProductInput struct {
	Name               string
	Description        string
	ProductDescription string
	ProductDetails     string
	Category           string
	Images             []string
	Price              *decimal.Decimal
	Sizes              json.RawMessage
	IsActive           *bool
}

// ProductDetail 商品详情与相似商品
type ProductDetail struct {
	Product *models.Product  `json:"product"`
	Similar []models.Product `json:"similar_products"`
}

type sizeInput struct {
	Size    *string          `json:"size"`
	Price   *decimal.Decimal `json:"price"`
	InStock *bool            `json:"in_stock"`
	Weight  json.RawMessage  `json:"weight"`
}

// ParseSizes 严格解析规格数组：[{size, price>=0, in_stock, weight}]
func ParseSizes(raw json.RawMessage) ([]models.ProductSize, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.ProductSize{}, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: sizes must be an array", ErrProductSizesInvalid)
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	var inputs []sizeInput
	if err := decoder.Decode(&inputs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductSizesInvalid, err)
	}

	sizes := make([]models.ProductSize, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		if input.Size == nil || strings.TrimSpace(*input.Size) == "" {
			return nil, fmt.Errorf("%w: sizes[%d].size is required", ErrProductSizesInvalid, i)
		}
		label := strings.TrimSpace(*input.Size)
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: duplicate size %q", ErrProductSizesInvalid, label)
		}
		seen[label] = struct{}{}
		if input.Price == nil || input.Price.IsNegative() {
			return nil, fmt.Errorf("%w: sizes[%d].price must be >= 0", ErrProductSizesInvalid, i)
		}
		weight, err := parseSizeWeight(input.Weight)
		if err != nil {
			return nil, fmt.Errorf("%w: sizes[%d].weight %v", ErrProductSizesInvalid, i, err)
		}
		inStock := true
		if input.InStock != nil {
			inStock = *input.InStock
		}
		sizes = append(sizes, models.ProductSize{
			Size:    label,
			Price:   models.NewMoneyFromDecimal(*input.Price),
			InStock: inStock,
			Weight:  weight,
		})
	}
	return sizes, nil
}

func parseSizeWeight(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}
	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&number); err != nil {
		return "", fmt.Errorf("must be a number or string")
	}
	return number.String(), nil
}

// ListPublic 前台商品列表
func (s *ProductService) ListPublic(category string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Category:   category,
		OnlyActive: true,
	})
}

// Search 关键字搜索上架商品
func (s *ProductService) Search(keyword string, page, pageSize int) ([]models.Product, int64, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []models.Product{}, 0, nil
	}
	return s.repo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     keyword,
		OnlyActive: true,
	})
}

// Active 全部上架商品
func (s *ProductService) Active() ([]models.Product, error) {
	products, _, err := s.repo.List(repository.ProductListFilter{OnlyActive: true})
	return products, err
}

// BestSellers 销量前五的商品
func (s *ProductService) BestSellers() ([]models.Product, error) {
	return s.repo.ListBestSellers(bestSellerLimit)
}

// GetPublic 前台商品详情，附带同分类相似商品
func (s *ProductService) GetPublic(id uint) (*ProductDetail, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted || !product.IsActive {
		return nil, ErrProductNotFound
	}
	similar, err := s.repo.ListSimilar(product.Category, product.ID, similarProductLimit)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: product, Similar: similar}, nil
}

// ListAdmin 后台商品列表
func (s *ProductService) ListAdmin(category, search string, includeDeleted bool, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:           page,
		PageSize:       pageSize,
		Category:       category,
		Search:         search,
		IncludeDeleted: includeDeleted,
	})
}

// GetAdmin 后台商品详情
func (s *ProductService) GetAdmin(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	sizes, err := ParseSizes(input.Sizes)
	if err != nil {
		return nil, err
	}
	price, err := normalizeLegacyPrice(input.Price, len(sizes) > 0)
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:               name,
		Description:        strings.TrimSpace(input.Description),
		ProductDescription: strings.TrimSpace(input.ProductDescription),
		ProductDetails:     strings.TrimSpace(input.ProductDetails),
		Category:           strings.TrimSpace(input.Category),
		Images:             models.StringArray(normalizeImages(input.Images)),
		Price:              price,
		IsActive:           true,
		Sizes:              sizes,
	}
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(product); err != nil {
			return err
		}
		if input.IsActive != nil && !*input.IsActive {
			product.IsActive = false
			return repo.SetActive(product.ID, false)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "sizes", len(sizes))
	return product, nil
}

// Update 更新商品，Sizes 非空时整体替换规格
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetAdmin(id)
	if err != nil {
		return nil, err
	}
	var sizes []models.ProductSize
	replaceSizes := input.Sizes != nil
	if replaceSizes {
		if sizes, err = ParseSizes(input.Sizes); err != nil {
			return nil, err
		}
	}
	if v := strings.TrimSpace(input.Name); v != "" {
		product.Name = v
	}
	if v := strings.TrimSpace(input.Description); v != "" {
		product.Description = v
	}
	if v := strings.TrimSpace(input.ProductDescription); v != "" {
		product.ProductDescription = v
	}
	if v := strings.TrimSpace(input.ProductDetails); v != "" {
		product.ProductDetails = v
	}
	if v := strings.TrimSpace(input.Category); v != "" {
		product.Category = v
	}
	if input.Images != nil {
		product.Images = models.StringArray(normalizeImages(input.Images))
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, ErrProductPriceInvalid
		}
		price := models.NewMoneyFromDecimal(*input.Price)
		product.Price = &price
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(product); err != nil {
			return err
		}
		if replaceSizes {
			return repo.ReplaceSizes(product.ID, sizes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetAdmin(product.ID)
}

// Delete 物理删除商品
func (s *ProductService) Delete(id uint) error {
	if _, err := s.GetAdmin(id); err != nil {
		return err
	}
	return s.repo.Delete([]uint{id})
}

// BulkDelete 批量物理删除
func (s *ProductService) BulkDelete(ids []uint) error {
	if len(ids) == 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ids)
}

// SoftDelete 软删除商品
func (s *ProductService) SoftDelete(id uint) error {
	if _, err := s.GetAdmin(id); err != nil {
		return err
	}
	return s.repo.SoftDelete(id)
}

// PurgeSoftDeleted 清理已软删除商品
func (s *ProductService) PurgeSoftDeleted() (int64, error) {
	return s.repo.PurgeSoftDeleted()
}

// SetActive 设置上下架，active 为空时切换当前状态
func (s *ProductService) SetActive(id uint, active *bool) (*models.Product, error) {
	product, err := s.GetAdmin(id)
	if err != nil {
		return nil, err
	}
	next := !product.IsActive
	if active != nil {
		next = *active
	}
	if err := s.repo.SetActive(id, next); err != nil {
		return nil, err
	}
	product.IsActive = next
	return product, nil
}

// SetCertified 设置认证标记与认证图片
func (s *ProductService) SetCertified(id uint, certified bool, image string) (*models.Product, error) {
	product, err := s.GetAdmin(id)
	if err != nil {
		return nil, err
	}
	image = strings.TrimSpace(image)
	if !certified {
		image = ""
	}
	if err := s.repo.SetCertified(id, certified, image); err != nil {
		return nil, err
	}
	product.IsCertified = certified
	product.CertifiedImage = image
	return product, nil
}

func normalizeLegacyPrice(price *decimal.Decimal, hasSizes bool) (*models.Money, error) {
	if price == nil {
		if hasSizes {
			return nil, nil
		}
		return nil, ErrProductPriceInvalid
	}
	if price.IsNegative() {
		return nil, ErrProductPriceInvalid
	}
	money := models.NewMoneyFromDecimal(*price)
	return &money, nil
}

func normalizeImages(images []string) []string {
	result := make([]string, 0, len(images))
	for _, image := range images {
		if trimmed := strings.TrimSpace(image); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
