package public

import "github.com/alphadeveloper12/dosta-backend/internal/provider"

// Handler 用户侧接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
