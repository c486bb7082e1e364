package admin

import (
	"encoding/json"
	"strings"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 创建/更新商品请求，sizes 原样交给服务层校验
type ProductRequest struct {
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	ProductDescription string           `json:"product_description"`
	ProductDetails     string           `json:"product_details"`
	Category           string           `json:"category"`
	Images             []string         `json:"images"`
	Price              *decimal.Decimal `json:"price"`
	Sizes              json.RawMessage  `json:"sizes"`
	IsActive           *bool            `json:"is_active"`
}

// BulkIDsRequest 批量操作请求
type BulkIDsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ProductStatusRequest 上下架请求，缺省时取反
type ProductStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// ProductCertifiedRequest 认证标记请求
type ProductCertifiedRequest struct {
	Certified bool   `json:"certified"`
	Image     string `json:"image"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:               r.Name,
		Description:        r.Description,
		ProductDescription: r.ProductDescription,
		ProductDetails:     r.ProductDetails,
		Category:           r.Category,
		Images:             r.Images,
		Price:              r.Price,
		Sizes:              r.Sizes,
		IsActive:           r.IsActive,
	}
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := pageParams(c)
	includeDeleted := strings.EqualFold(strings.TrimSpace(c.Query("include_deleted")), "true")
	products, total, err := h.ProductService.ListAdmin(c.Query("category"), c.Query("search"), includeDeleted, page, pageSize)
	if err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetAdmin(id)
	if err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.internal_error")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品，传入 sizes 时整体替换规格
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 物理删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.product_save_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.deleted"), gin.H{"deleted": true})
}

// BulkDeleteProducts 批量删除商品
func (h *Handler) BulkDeleteProducts(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.ProductService.BulkDelete(req.IDs); err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.product_save_failed")
		return
	}
	response.Success(c, gin.H{"deleted": len(req.IDs)})
}

// SoftDeleteProduct 软删除商品
func (h *Handler) SoftDeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.SoftDelete(id); err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.product_save_failed")
		return
	}
	response.Success(c, gin.H{"soft_deleted": true})
}

// PurgeSoftDeletedProducts 清理所有已软删除商品
func (h *Handler) PurgeSoftDeletedProducts(c *gin.Context) {
	purged, err := h.ProductService.PurgeSoftDeleted()
	if err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.product_save_failed")
		return
	}
	response.Success(c, gin.H{"purged": purged})
}

// UpdateProductStatus 上下架
func (h *Handler) UpdateProductStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.SetActive(id, req.IsActive)
	if err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProductCertified 设置认证标记
func (h *Handler) UpdateProductCertified(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductCertifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.SetCertified(id, req.Certified, req.Image)
	if err != nil {
		respondMappedError(c, err, adminCatalogRules, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}
