package shared

import (
	"github.com/built-mlm/internal/http/response"
	"github.com/built-mlm/internal/i18n"
	"github.com/built-mlm/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 携带 request_id 的日志实例，优先取请求上下文中的 ID
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if c.Request != nil {
		if id := logger.RequestIDFromContext(c.Request.Context()); id != "" {
			return logger.Ctx(c.Request.Context())
		}
	}
	if id := c.GetString("request_id"); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	respond(c, response.NewAppError(code, key, msg, err))
}

// RespondErrorWithMsg 返回已本地化的自定义文案
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	respond(c, response.NewAppError(code, "", msg, err))
}

// respond 写出信封；带原始错误时记日志，服务端故障用 error 级别，其余用 warn
func respond(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		log := RequestLog(c)
		if appErr.ServerSide() {
			log.Errorw("handler_error", appErr.LogFields()...)
		} else {
			log.Warnw("handler_rejected", appErr.LogFields()...)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
