package response

// AppError 一次失败响应：业务码、文案键、本地化文案与原始错误
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ServerSide 是否为服务端故障（5xx 业务码）
func (e *AppError) ServerSide() bool {
	return e.Code >= CodeInternal
}

// LogFields 结构化日志字段
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{"code", e.Code, "message", e.Message}
	if e.Key != "" {
		fields = append(fields, "key", e.Key)
	}
	if e.Err != nil {
		fields = append(fields, "error", e.Err)
	}
	return fields
}

// NewAppError 构造错误响应
func NewAppError(code int, key, message string, err error) *AppError {
	return &AppError{Code: code, Key: key, Message: message, Err: err}
}
