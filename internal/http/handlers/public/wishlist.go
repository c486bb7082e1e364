package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"

	"github.com/gin-gonic/gin"
)

// WishlistRequest 心愿单请求
type WishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// ListWishlist 当前用户心愿单
func (h *Handler) ListWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	entries, err := h.WishlistService.List(uid)
	if err != nil {
		respondMappedError(c, err, contentRules, "error.wishlist_failed")
		return
	}
	response.Success(c, entries)
}

// AddToWishlist 加入心愿单
func (h *Handler) AddToWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.WishlistService.Add(uid, req.ProductID); err != nil {
		respondMappedError(c, err, contentRules, "error.wishlist_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.wishlist_added"), gin.H{"product_id": req.ProductID})
}

// RemoveFromWishlist 移出心愿单
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.WishlistService.Remove(uid, productID); err != nil {
		respondMappedError(c, err, contentRules, "error.wishlist_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.wishlist_removed"), gin.H{"product_id": productID})
}
