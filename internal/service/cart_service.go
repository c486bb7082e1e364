package service

import (
	"context"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// CartLineInput 购物车行操作输入
type CartLineInput struct {
	UserID    uint
	ProductID uint
	Size      *string
}

// ChangeSizeInput 切换规格输入
type ChangeSizeInput struct {
	UserID    uint
	ProductID uint
	FromSize  *string
	ToSize    string
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	store       cache.Store
	ttl         time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, store cache.Store, ttl time.Duration) *CartService {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		store:       store,
		ttl:         ttl,
	}
}

// Get 读取购物车（缓存优先，未命中时回源并回填）
func (s *CartService) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	key := cache.CartKey(userID)
	var cached models.Cart
	hit, err := cache.GetJSON(ctx, s.store, key, &cached)
	if err != nil {
		logger.Warnw("cart_cache_read_failed", "user_id", userID, "error", err)
	}
	if hit {
		return &cached, nil
	}

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	cart.TotalAmount = models.NewMoneyFromDecimal(ComputeCartTotal(cart.Items))
	if err := cache.SetJSON(ctx, s.store, key, cart, s.ttl); err != nil {
		logger.Warnw("cart_cache_write_failed", "user_id", userID, "error", err)
	}
	return cart, nil
}

// Add 加入购物车：同商品同规格数量 +1，否则追加新行
func (s *CartService) Add(ctx context.Context, input CartLineInput) (*models.Cart, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.loadOrderableProduct(input.ProductID)
	if err != nil {
		return nil, err
	}
	size, err := ValidateSize(product, input.Size)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadOrCreate(input.UserID)
	if err != nil {
		return nil, err
	}
	label := sizeLabel(size)
	if idx := findLine(cart.Items, input.ProductID, label); idx >= 0 {
		cart.Items[idx].Quantity++
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Size:      size,
			Quantity:  1,
			Product:   product,
		})
	}
	return s.persist(ctx, cart)
}

// Remove 移除购物车行；未指定规格时移除该商品的全部行
func (s *CartService) Remove(ctx context.Context, input CartLineInput) (*models.Cart, error) {
	cart, err := s.loadExisting(input.UserID)
	if err != nil {
		return nil, err
	}
	kept := make([]models.CartItem, 0, len(cart.Items))
	removed := 0
	for i, item := range cart.Items {
		if item.ProductID == input.ProductID && (input.Size == nil || findLine(cart.Items[i:i+1], input.ProductID, strings.TrimSpace(*input.Size)) == 0) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return nil, ErrCartItemNotFound
	}
	cart.Items = kept
	return s.persist(ctx, cart)
}

// Increment 数量 +1，规格需仍然有货
func (s *CartService) Increment(ctx context.Context, input CartLineInput) (*models.Cart, error) {
	cart, err := s.loadExisting(input.UserID)
	if err != nil {
		return nil, err
	}
	idx := findLine(cart.Items, input.ProductID, sizeLabel(input.Size))
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	item := &cart.Items[idx]
	if item.Product == nil {
		return nil, ErrProductNotFound
	}
	if _, err := ValidateSize(item.Product, item.Size); err != nil {
		return nil, err
	}
	item.Quantity++
	return s.persist(ctx, cart)
}

// Decrement 数量 -1，数量为 1 时直接移除该行
func (s *CartService) Decrement(ctx context.Context, input CartLineInput) (*models.Cart, error) {
	cart, err := s.loadExisting(input.UserID)
	if err != nil {
		return nil, err
	}
	idx := findLine(cart.Items, input.ProductID, sizeLabel(input.Size))
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	if cart.Items[idx].Quantity <= 1 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity--
	}
	return s.persist(ctx, cart)
}

// ChangeSize 切换规格：目标规格已存在时合并数量，否则仅改标签
func (s *CartService) ChangeSize(ctx context.Context, input ChangeSizeInput) (*models.Cart, error) {
	cart, err := s.loadExisting(input.UserID)
	if err != nil {
		return nil, err
	}
	from := findLine(cart.Items, input.ProductID, sizeLabel(input.FromSize))
	if from < 0 {
		return nil, ErrCartItemNotFound
	}
	product := cart.Items[from].Product
	if product == nil {
		return nil, ErrProductNotFound
	}
	target := input.ToSize
	size, err := ValidateSize(product, &target)
	if err != nil {
		return nil, err
	}
	label := sizeLabel(size)
	if label == cart.Items[from].SizeLabel() {
		return s.persist(ctx, cart)
	}

	if to := findLine(cart.Items, input.ProductID, label); to >= 0 {
		cart.Items[to].Quantity += cart.Items[from].Quantity
		cart.Items = append(cart.Items[:from], cart.Items[from+1:]...)
	} else {
		cart.Items[from].Size = size
	}
	return s.persist(ctx, cart)
}

// Recommendations 推荐不在购物车中的高评分商品
func (s *CartService) Recommendations(userID uint) ([]models.Product, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListRecommendations(cart.ProductIDs(), constants.RecommendationLimit)
}

// InvalidateCache 删除用户购物车缓存
func (s *CartService) InvalidateCache(ctx context.Context, userID uint) {
	if err := cache.Del(ctx, s.store, cache.CartKey(userID)); err != nil {
		logger.Warnw("cart_cache_invalidate_failed", "user_id", userID, "error", err)
	}
}

func (s *CartService) persist(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.TotalAmount = models.NewMoneyFromDecimal(ComputeCartTotal(cart.Items))
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx, cart.UserID)
	return cart, nil
}

func (s *CartService) loadOrderableProduct(productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive || product.IsDeleted {
		return nil, ErrProductNotAvailable
	}
	return product, nil
}

func (s *CartService) loadOrCreate(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return cart, nil
}

func (s *CartService) loadExisting(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartItemNotFound
	}
	return cart, nil
}

// findLine 按商品与规格定位购物车行，无规格商品忽略传入的规格名
func findLine(items []models.CartItem, productID uint, size string) int {
	for i := range items {
		label := size
		if items[i].Product != nil && !items[i].Product.HasSizes() {
			label = ""
		}
		if items[i].SameLine(productID, label) {
			return i
		}
	}
	return -1
}

func sizeLabel(size *string) string {
	if size == nil {
		return ""
	}
	return strings.TrimSpace(*size)
}
