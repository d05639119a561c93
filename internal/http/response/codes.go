package response

// 业务状态码，取值沿用 HTTP 语义
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409 // 店铺 slug 冲突、分组树完整性错误
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
