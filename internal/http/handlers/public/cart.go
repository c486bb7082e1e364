package public

import (
	"context"
	"strings"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CartLineRequest 购物车行请求
type CartLineRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Size      *string `json:"size"`
}

// ChangeSizeRequest 切换规格请求
type ChangeSizeRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	FromSize  *string `json:"from_size"`
	ToSize    string  `json:"to_size" binding:"required"`
}

type cartMutation func(ctx context.Context, input service.CartLineInput) (*models.Cart, error)

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Get(c.Request.Context(), uid)
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.cart_fetch_failed")
		return
	}
	response.Success(c, cart)
}

// AddToCart 加入购物车
func (h *Handler) AddToCart(c *gin.Context) {
	h.mutateCart(c, h.CartService.Add)
}

// RemoveFromCart 移除购物车行
func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.mutateCart(c, h.CartService.Remove)
}

// IncrementCartItem 数量加一
func (h *Handler) IncrementCartItem(c *gin.Context) {
	h.mutateCart(c, h.CartService.Increment)
}

// DecrementCartItem 数量减一，减到 0 时移除
func (h *Handler) DecrementCartItem(c *gin.Context) {
	h.mutateCart(c, h.CartService.Decrement)
}

// ChangeCartItemSize 切换购物车行规格
func (h *Handler) ChangeCartItemSize(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangeSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cart, err := h.CartService.ChangeSize(c.Request.Context(), service.ChangeSizeInput{
		UserID:    uid,
		ProductID: req.ProductID,
		FromSize:  trimSize(req.FromSize),
		ToSize:    strings.TrimSpace(req.ToSize),
	})
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.cart_update_failed")
		return
	}
	response.Success(c, cart)
}

// CartRecommendations 基于购物车的推荐商品
func (h *Handler) CartRecommendations(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	products, err := h.CartService.Recommendations(uid)
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.cart_fetch_failed")
		return
	}
	response.Success(c, products)
}

func (h *Handler) mutateCart(c *gin.Context, mutate cartMutation) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cart, err := mutate(c.Request.Context(), service.CartLineInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Size:      trimSize(req.Size),
	})
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.cart_update_failed")
		return
	}
	response.Success(c, cart)
}

func trimSize(size *string) *string {
	if size == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*size)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
