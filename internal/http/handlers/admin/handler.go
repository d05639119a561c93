package admin

import "github.com/built-mlm/internal/provider"

// Handler 管理端接口：分组树、分销商比例、佣金报表与 RBAC
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
