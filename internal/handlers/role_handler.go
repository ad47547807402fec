package handlers

import (
	"marlex/internal/middleware"
	"marlex/internal/models"
	"marlex/internal/services"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/pagination"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
)

// RoleHandler 角色处理器
type RoleHandler struct {
	roleService  *services.RoleService
	auditService *services.AuditService
}

// NewRoleHandler 创建角色处理器
func NewRoleHandler(roleService *services.RoleService, auditService *services.AuditService) *RoleHandler {
	return &RoleHandler{
		roleService:  roleService,
		auditService: auditService,
	}
}

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	OrganizationID *uint  `json:"organization_id"`
	Name           string `json:"name" binding:"required,min=2,max=50"`
	Description    string `json:"description" binding:"max=200"`
}

// Create 创建角色
// @route POST /api/v1/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	role, err := h.roleService.Create(req.OrganizationID, req.Name, req.Description)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionCreate, actor.ID, "role", role.ID,
			map[string]interface{}{"name": role.Name})
	}

	response.SuccessWithMessage(c, "创建成功", role)
}

// Get 获取角色详情（含权限条目）
// @route GET /api/v1/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	role, err := h.roleService.GetByID(id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, role)
}

// List 分页获取角色列表
// @route GET /api/v1/roles
func (h *RoleHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)

	// 非全局用户只能看到本组织及全局角色
	var organizationID *uint
	if actor := middleware.CurrentUser(c); actor != nil {
		organizationID = actor.OrganizationID
	}

	roles, total, err := h.roleService.GetWithPage(organizationID, params.Page, params.PageSize)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.SuccessWithPage(c, roles, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// UpdateRoleRequest 更新角色请求
type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=50"`
	Description string `json:"description" binding:"max=200"`
}

// Update 更新角色
// @route PUT /api/v1/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	role, err := h.roleService.Update(id, req.Name, req.Description)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "role", role.ID,
			map[string]interface{}{"name": role.Name})
	}

	response.SuccessWithMessage(c, "更新成功", role)
}

// Delete 删除角色
// @route DELETE /api/v1/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if err := h.roleService.Delete(id); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionDelete, actor.ID, "role", id, nil)
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ReplacePermissionsRequest 替换权限请求
type ReplacePermissionsRequest struct {
	Grants []services.MenuGrant `json:"grants" binding:"required"`
}

// ReplacePermissions 整体替换角色权限
// @route PUT /api/v1/roles/:id/permissions
func (h *RoleHandler) ReplacePermissions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req ReplacePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	if err := h.roleService.ReplacePermissions(id, req.Grants); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "role", id,
			map[string]interface{}{"field": "permissions", "grant_count": len(req.Grants)})
	}

	response.SuccessWithMessage(c, "权限已更新", nil)
}
