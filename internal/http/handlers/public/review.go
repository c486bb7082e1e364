package public

import (
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewRequest 评论请求
type ReviewRequest struct {
	ProductID uint   `json:"product_id"`
	Rating    int    `json:"rating" binding:"required"`
	Message   string `json:"message"`
}

// AddReview 发表评论
func (h *Handler) AddReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.ProductID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	review, err := h.ReviewService.Add(service.ReviewInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Message:   req.Message,
	})
	if err != nil {
		respondMappedError(c, err, contentRules, "error.review_failed")
		return
	}
	response.Success(c, review)
}

// EditReview 修改自己的评论
func (h *Handler) EditReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	review, err := h.ReviewService.Edit(service.ReviewInput{
		UserID:  uid,
		Rating:  req.Rating,
		Message: req.Message,
	}, id)
	if err != nil {
		respondMappedError(c, err, contentRules, "error.review_failed")
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除自己的评论
func (h *Handler) DeleteReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.Delete(uid, id); err != nil {
		respondMappedError(c, err, contentRules, "error.review_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.deleted"), gin.H{"deleted": true})
}

// LikeReview 点赞评论（重复点赞会取消）
func (h *Handler) LikeReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.ReviewService.Like(uid, id)
	if err != nil {
		respondMappedError(c, err, contentRules, "error.review_failed")
		return
	}
	response.Success(c, result)
}

// UnlikeReview 取消点赞
func (h *Handler) UnlikeReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.ReviewService.Unlike(uid, id)
	if err != nil {
		respondMappedError(c, err, contentRules, "error.review_failed")
		return
	}
	response.Success(c, result)
}
