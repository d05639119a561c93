package public

import "github.com/built-mlm/internal/provider"

// Handler 用户侧接口：注册登录、加入分销商、下单与分销商后台
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
