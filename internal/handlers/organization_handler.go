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

// OrganizationHandler 组织处理器
type OrganizationHandler struct {
	orgService   *services.OrganizationService
	auditService *services.AuditService
}

// NewOrganizationHandler 创建组织处理器
func NewOrganizationHandler(orgService *services.OrganizationService, auditService *services.AuditService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:   orgService,
		auditService: auditService,
	}
}

// CreateOrganizationRequest 创建组织请求
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Code string `json:"code" binding:"required,min=2,max=50,alphanum"`
}

// Create 创建组织
// @route POST /api/v1/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	org, err := h.orgService.Create(req.Name, req.Code)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionCreate, actor.ID, "organization", org.ID,
			map[string]interface{}{"code": org.Code})
	}

	response.SuccessWithMessage(c, "创建成功", org)
}

// Get 获取组织详情
// @route GET /api/v1/organizations/:id
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	org, err := h.orgService.GetByID(id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, org)
}

// List 分页获取组织列表
// @route GET /api/v1/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)

	orgs, total, err := h.orgService.GetWithPage(params.Page, params.PageSize)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.SuccessWithPage(c, orgs, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// UpdateOrganizationRequest 更新组织请求
type UpdateOrganizationRequest struct {
	Name   string `json:"name" binding:"required,min=2,max=100"`
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// Update 更新组织
// @route PUT /api/v1/organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	org, err := h.orgService.Update(id, req.Name, req.Status)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "organization", org.ID,
			map[string]interface{}{"status": org.Status})
	}

	response.SuccessWithMessage(c, "更新成功", org)
}

// Delete 删除组织
// @route DELETE /api/v1/organizations/:id
func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if err := h.orgService.Delete(id); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionDelete, actor.ID, "organization", id, nil)
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
