package public

import (
	"errors"
	"time"

	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userAuthPayload(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"display_name": user.DisplayName,
			"roles":        user.Roles,
		},
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	captcha := service.CaptchaVerifyPayload{CaptchaID: req.CaptchaID, CaptchaCode: req.CaptchaCode}
	if err := h.CaptchaService.VerifyRegister(captcha); err != nil {
		respondWithMappedError(c, err, userAuthErrorRules, "error.captcha_invalid")
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			respondWeakPassword(c, err)
			return
		}
		respondWithMappedError(c, err, userAuthErrorRules, "error.internal")
		return
	}
	response.Success(c, userAuthPayload(user, token, expiresAt))
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, userAuthErrorRules, "error.internal")
		return
	}
	response.Success(c, userAuthPayload(user, token, expiresAt))
}

// GetUserMe 当前用户信息
func (h *Handler) GetUserMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserRepo.WithContext(c.Request.Context()).GetByID(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}
	response.Success(c, user)
}
