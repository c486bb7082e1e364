package admin

import (
	"context"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateUserRequest 管理端更新用户请求，未传字段保持不变
type UpdateUserRequest struct {
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Email     *string         `json:"email"`
	Phone     *string         `json:"phone"`
	Dob       *string         `json:"dob"`
	Address   *models.Address `json:"address"`
	IsActive  *bool           `json:"is_active"`
}

// GetAdminUsers 用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	list, err := h.UserAdminService.List(c.Request.Context(), adminID, repository.UserListFilter{
		Page:           page,
		PageSize:       pageSize,
		Keyword:        strings.TrimSpace(c.Query("keyword")),
		IncludeDeleted: strings.EqualFold(strings.TrimSpace(c.Query("include_deleted")), "true"),
	})
	if err != nil {
		respondMappedError(c, err, adminUserRules, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, list.Items, response.NewPagination(page, pageSize, list.Total))
}

// GetAdminUser 用户详情
func (h *Handler) GetAdminUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserAdminService.Get(c.Request.Context(), id)
	if err != nil {
		respondMappedError(c, err, adminUserRules, "error.internal_error")
		return
	}
	response.Success(c, user)
}

// UpdateAdminUser 更新用户资料
func (h *Handler) UpdateAdminUser(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input := service.AdminUserUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		IsActive:  req.IsActive,
	}
	if req.Dob != nil && strings.TrimSpace(*req.Dob) != "" {
		dob, err := time.Parse("2006-01-02", strings.TrimSpace(*req.Dob))
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		input.Dob = &dob
	}
	user, err := h.UserAdminService.Update(c.Request.Context(), adminID, id, input)
	if err != nil {
		respondMappedError(c, err, adminUserRules, "error.user_update_failed")
		return
	}
	response.Success(c, user)
}

// SoftDeleteAdminUser 停用用户
func (h *Handler) SoftDeleteAdminUser(c *gin.Context) {
	h.userAction(c, h.UserAdminService.SoftDelete, gin.H{"soft_deleted": true})
}

// ReactivateAdminUser 重新启用用户
func (h *Handler) ReactivateAdminUser(c *gin.Context) {
	h.userAction(c, h.UserAdminService.Reactivate, gin.H{"active": true})
}

// DeleteAdminUser 物理删除用户
func (h *Handler) DeleteAdminUser(c *gin.Context) {
	h.userAction(c, h.UserAdminService.Delete, gin.H{"deleted": true})
}

// BulkDeleteAdminUsers 批量删除用户
func (h *Handler) BulkDeleteAdminUsers(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.UserAdminService.BulkDelete(c.Request.Context(), adminID, req.IDs); err != nil {
		respondMappedError(c, err, adminUserRules, "error.user_update_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.deleted"), gin.H{"deleted": len(req.IDs)})
}

type userActionFunc func(ctx context.Context, adminID, userID uint) error

func (h *Handler) userAction(c *gin.Context, action userActionFunc, result gin.H) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := action(c.Request.Context(), adminID, id); err != nil {
		respondMappedError(c, err, adminUserRules, "error.user_update_failed")
		return
	}
	response.Success(c, result)
}
