package shared

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// MappedError 业务错误到响应码与文案的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 按映射表返回错误，未命中时使用兜底文案。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}
