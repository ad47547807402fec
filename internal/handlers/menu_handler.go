package handlers

import (
	"marlex/internal/services"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
)

// MenuHandler 功能模块目录处理器
type MenuHandler struct {
	menuService *services.MenuService
}

// NewMenuHandler 创建功能模块处理器
func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// List 获取全部功能模块及其细粒度权限定义，供角色配置页使用
// @route GET /api/v1/menus
func (h *MenuHandler) List(c *gin.Context) {
	menus, err := h.menuService.List()
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, menus)
}
