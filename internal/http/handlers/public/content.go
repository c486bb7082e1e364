package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// BlogRequest 用户发布博客请求
type BlogRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// ContactRequest 联系留言请求
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ListBlogs 已发布博客
func (h *Handler) ListBlogs(c *gin.Context) {
	blogs, err := h.BlogService.ListPublic(c.Request.Context())
	if err != nil {
		respondMappedError(c, err, contentRules, "error.blog_failed")
		return
	}
	response.Success(c, blogs)
}

// GetBlog 博客详情
func (h *Handler) GetBlog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	blog, err := h.BlogService.Get(c.Request.Context(), id)
	if err != nil {
		respondMappedError(c, err, contentRules, "error.blog_failed")
		return
	}
	response.Success(c, blog)
}

// CreateBlog 登录用户发布博客
func (h *Handler) CreateBlog(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	blog, err := h.BlogService.Create(c.Request.Context(), uid, service.BlogInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Type:        req.Type,
		Category:    req.Category,
	})
	if err != nil {
		respondMappedError(c, err, contentRules, "error.blog_failed")
		return
	}
	response.Success(c, blog)
}

// DeleteBlog 软删除博客
func (h *Handler) DeleteBlog(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.BlogService.SoftDelete(c.Request.Context(), id); err != nil {
		respondMappedError(c, err, contentRules, "error.blog_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.deleted"), gin.H{"deleted": true})
}

// SubmitContact 提交联系留言
func (h *Handler) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	message, err := h.ContactService.Submit(c.Request.Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		respondMappedError(c, err, contactRules, "error.contact_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.contact_received"), message)
}
