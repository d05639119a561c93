package shared

import (
	"strconv"
	"strings"

	"github.com/built-mlm/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入 gin.Context 的主体键
const (
	AdminIDKey = "admin_id"
	UserIDKey  = "user_id"
)

// CurrentID 读取鉴权中间件写入的主体 ID，缺失时按未登录响应
func CurrentID(c *gin.Context, key string) (uint, bool) {
	if value, exists := c.Get(key); exists {
		if id, ok := value.(uint); ok && id > 0 {
			return id, true
		}
	}
	RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
	return 0, false
}

// ParseIDParam 解析路径参数中的正整数 ID
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(id), true
}
