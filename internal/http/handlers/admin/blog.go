package admin

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// BlogRequest 博客请求
type BlogRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"is_active"`
}

// GetAdminBlogs 全部博客（含未发布）
func (h *Handler) GetAdminBlogs(c *gin.Context) {
	blogs, err := h.BlogService.ListAdmin(c.Request.Context())
	if err != nil {
		respondMappedError(c, err, adminContentRules, "error.blog_failed")
		return
	}
	response.Success(c, blogs)
}

// UpdateAdminBlog 更新博客
func (h *Handler) UpdateAdminBlog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	blog, err := h.BlogService.Update(c.Request.Context(), id, service.BlogInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Type:        req.Type,
		Category:    req.Category,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondMappedError(c, err, adminContentRules, "error.blog_failed")
		return
	}
	response.Success(c, blog)
}

// DeleteAdminBlog 物理删除博客
func (h *Handler) DeleteAdminBlog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.BlogService.HardDelete(c.Request.Context(), id); err != nil {
		respondMappedError(c, err, adminContentRules, "error.blog_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.deleted"), gin.H{"deleted": true})
}
