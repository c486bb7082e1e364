package public

import (
	"strings"

	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表，可按分类过滤
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	products, total, err := h.ProductService.ListPublic(strings.TrimSpace(c.Query("category")), page, pageSize)
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// SearchProducts 按关键字搜索商品名称与分类
func (h *Handler) SearchProducts(c *gin.Context) {
	keyword := strings.TrimSpace(c.Param("keyword"))
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	products, total, err := h.ProductService.Search(keyword, page, pageSize)
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// ActiveProducts 全部上架商品
func (h *Handler) ActiveProducts(c *gin.Context) {
	products, err := h.ProductService.Active()
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.internal_error")
		return
	}
	response.Success(c, products)
}

// BestSellingProducts 畅销商品
func (h *Handler) BestSellingProducts(c *gin.Context) {
	products, err := h.ProductService.BestSellers()
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.internal_error")
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情与同类推荐
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.ProductService.GetPublic(id)
	if err != nil {
		respondMappedError(c, err, catalogRules, "error.internal_error")
		return
	}
	response.Success(c, detail)
}

// ListProductReviews 商品下的评论
func (h *Handler) ListProductReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.ReviewService.ListByProduct(id)
	if err != nil {
		respondMappedError(c, err, contentRules, "error.review_failed")
		return
	}
	response.Success(c, reviews)
}

// GetReview 评论详情
func (h *Handler) GetReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	review, err := h.ReviewService.Get(id)
	if err != nil {
		respondMappedError(c, err, contentRules, "error.review_failed")
		return
	}
	response.Success(c, review)
}

// GetCaptchaSetting 前台验证码配置
func (h *Handler) GetCaptchaSetting(c *gin.Context) {
	response.Success(c, h.CaptchaService.PublicSetting())
}

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondMappedError(c, err, userRules, "error.captcha_config_invalid")
		return
	}
	response.Success(c, challenge)
}
