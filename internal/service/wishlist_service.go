package service

import (
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// WishlistEntry 心愿单条目（含展示价）
type WishlistEntry struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Category  string       `json:"category"`
	Image     string       `json:"image"`
	Price     models.Money `json:"price"`
	Rating    float64      `json:"rating"`
	IsActive  bool         `json:"is_active"`
}

// WishlistService 心愿单服务
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// Add 加入心愿单，重复加入报错
func (s *WishlistService) Add(userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || product.IsDeleted {
		return ErrProductNotFound
	}
	exists, err := s.wishlistRepo.Exists(userID, productID)
	if err != nil {
		return err
	}
	if exists {
		return ErrWishlistDuplicate
	}
	return s.wishlistRepo.Create(&models.Wishlist{UserID: userID, ProductID: productID})
}

// Remove 移出心愿单
func (s *WishlistService) Remove(userID, productID uint) error {
	affected, err := s.wishlistRepo.Delete(userID, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

// List 心愿单列表，商品已删除的条目跳过
func (s *WishlistService) List(userID uint) ([]WishlistEntry, error) {
	rows, err := s.wishlistRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	entries := make([]WishlistEntry, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil || row.Product.IsDeleted {
			continue
		}
		image := ""
		if len(row.Product.Images) > 0 {
			image = row.Product.Images[0]
		}
		entries = append(entries, WishlistEntry{
			ProductID: row.ProductID,
			Name:      row.Product.Name,
			Category:  row.Product.Category,
			Image:     image,
			Price:     models.NewMoneyFromDecimal(DisplayPrice(row.Product)),
			Rating:    row.Product.Rating,
			IsActive:  row.Product.IsActive,
		})
	}
	return entries, nil
}
