package public

import (
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// SignUpRequest 注册请求
type SignUpRequest struct {
	FirstName      string                              `json:"first_name"`
	LastName       string                              `json:"last_name"`
	Email          string                              `json:"email" binding:"required"`
	Phone          string                              `json:"phone" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	Dob            string                              `json:"dob"`
	Address        models.Address                      `json:"address"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// SignInRequest 登录请求，identifier 可为邮箱或手机号
type SignInRequest struct {
	Identifier     string                              `json:"identifier"`
	Email          string                              `json:"email"`
	Phone          string                              `json:"phone"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// SignUp 用户注册
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !h.verifyCaptcha(c, constants.CaptchaSceneSignup, req.CaptchaPayload) {
		return
	}

	var dob *time.Time
	if raw := strings.TrimSpace(req.Dob); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		dob = &parsed
	}

	user, token, expiresAt, err := h.UserAuthService.SignUp(c.Request.Context(), service.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Dob:       dob,
		Address:   req.Address,
	})
	if err != nil {
		respondMappedError(c, err, userRules, "error.signup_failed")
		return
	}

	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// SignIn 用户登录
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !h.verifyCaptcha(c, constants.CaptchaSceneSignin, req.CaptchaPayload) {
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		identifier = strings.TrimSpace(req.Phone)
	}

	user, token, expiresAt, err := h.UserAuthService.SignIn(c.Request.Context(), service.SignInInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		respondMappedError(c, err, userRules, "error.signin_failed")
		return
	}

	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// SignOut 用户退出登录，使已签发的 Token 失效
func (h *Handler) SignOut(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.SignOut(c.Request.Context(), uid); err != nil {
		respondMappedError(c, err, userRules, "error.signout_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.signout_success"), gin.H{"signed_out": true})
}

// Dashboard 用户个人中心
func (h *Handler) Dashboard(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	dashboard, err := h.UserAuthService.Dashboard(c.Request.Context(), uid)
	if err != nil {
		respondMappedError(c, err, userRules, "error.dashboard_fetch_failed")
		return
	}
	response.Success(c, dashboard)
}

func (h *Handler) verifyCaptcha(c *gin.Context, scene string, payload handlershared.CaptchaPayloadRequest) bool {
	if h.CaptchaService == nil {
		return true
	}
	if err := h.CaptchaService.Verify(scene, payload.ToServicePayload()); err != nil {
		respondMappedError(c, err, userRules, "error.captcha_invalid")
		return false
	}
	return true
}
