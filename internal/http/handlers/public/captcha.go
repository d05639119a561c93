package public

import (
	"github.com/built-mlm/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.captcha_generate_failed", err)
		return
	}
	response.Success(c, gin.H{
		"captcha_id":       challenge.CaptchaID,
		"image_base64":     challenge.ImageBase64,
		"register_enabled": h.CaptchaService.RegisterRequired(),
	})
}
