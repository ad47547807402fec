package handlers

import (
	"strconv"

	"marlex/internal/middleware"
	"marlex/internal/models"
	"marlex/internal/services"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/pagination"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 员工账号处理器
type UserHandler struct {
	userService  *services.UserService
	auditService *services.AuditService
}

// NewUserHandler 创建员工账号处理器
func NewUserHandler(userService *services.UserService, auditService *services.AuditService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		auditService: auditService,
	}
}

// parseIDParam 解析路径中的ID参数
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.BadRequest("无效的ID")
	}
	return uint(id), nil
}

// CreateUserRequest 创建员工请求
type CreateUserRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=6,max=72"`
	Name           string  `json:"name" binding:"required,min=2,max=50"`
	Phone          *string `json:"phone"`
	RoleID         uint    `json:"role_id" binding:"required"`
	OrganizationID *uint   `json:"organization_id"`
	RestaurantID   *uint   `json:"restaurant_id"`
}

// Create 创建员工账号
// @route POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	user, err := h.userService.Create(services.CreateUserParams{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Phone:          req.Phone,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
		RestaurantID:   req.RestaurantID,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionCreate, actor.ID, "user", user.ID,
			map[string]interface{}{"email": user.Email})
	}

	response.SuccessWithMessage(c, "创建成功", user)
}

// Get 获取员工详情
// @route GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, user)
}

// List 分页获取员工列表
// @route GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")

	var organizationID *uint
	if raw := c.Query("organization_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			_ = c.Error(apperrors.BadRequest("无效的组织ID"))
			c.Abort()
			return
		}
		v := uint(id)
		organizationID = &v
	}

	users, total, err := h.userService.GetWithPage(organizationID, status, params.Page, params.PageSize)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.SuccessWithPage(c, users, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// UpdateUserRequest 更新员工请求
type UpdateUserRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=50"`
	Phone        *string `json:"phone"`
	Status       string  `json:"status" binding:"required,oneof=active inactive"`
	RoleID       uint    `json:"role_id" binding:"required"`
	RestaurantID *uint   `json:"restaurant_id"`
}

// Update 更新员工账号
// @route PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	user, err := h.userService.Update(id, services.UpdateUserParams{
		Name:         req.Name,
		Phone:        req.Phone,
		Status:       req.Status,
		RoleID:       req.RoleID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "user", user.ID,
			map[string]interface{}{"status": user.Status})
	}

	response.SuccessWithMessage(c, "更新成功", user)
}

// Delete 删除员工账号（软删除，同时注销其全部会话）
// @route DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	// 不允许删除自己
	if actor := middleware.CurrentUser(c); actor != nil && actor.ID == id {
		_ = c.Error(apperrors.BadRequest("不能删除自己的账号"))
		c.Abort()
		return
	}

	if err := h.userService.Delete(id); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionDelete, actor.ID, "user", id, nil)
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// ResetPassword 重置员工密码
// @route PUT /api/v1/users/:id/password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("密码长度必须在6-72个字符之间"))
		c.Abort()
		return
	}

	if err := h.userService.ResetPassword(id, req.Password); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "user", id,
			map[string]interface{}{"field": "password"})
	}

	response.SuccessWithMessage(c, "密码已重置", nil)
}
