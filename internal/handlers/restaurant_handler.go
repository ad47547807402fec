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

// RestaurantHandler 门店处理器
type RestaurantHandler struct {
	restaurantService *services.RestaurantService
	auditService      *services.AuditService
}

// NewRestaurantHandler 创建门店处理器
func NewRestaurantHandler(restaurantService *services.RestaurantService, auditService *services.AuditService) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		auditService:      auditService,
	}
}

// CreateRestaurantRequest 创建门店请求
type CreateRestaurantRequest struct {
	OrganizationID uint    `json:"organization_id" binding:"required"`
	Name           string  `json:"name" binding:"required,min=2,max=100"`
	Address        string  `json:"address" binding:"required,max=200"`
	Phone          *string `json:"phone"`
}

// Create 创建门店
// @route POST /api/v1/restaurants
func (h *RestaurantHandler) Create(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	restaurant, err := h.restaurantService.Create(req.OrganizationID, req.Name, req.Address, req.Phone)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionCreate, actor.ID, "restaurant", restaurant.ID,
			map[string]interface{}{"name": restaurant.Name})
	}

	response.SuccessWithMessage(c, "创建成功", restaurant)
}

// Get 获取门店详情
// @route GET /api/v1/restaurants/:id
func (h *RestaurantHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	restaurant, err := h.restaurantService.GetByID(id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, restaurant)
}

// List 分页获取门店列表
// @route GET /api/v1/restaurants
func (h *RestaurantHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)

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

	restaurants, total, err := h.restaurantService.GetWithPage(organizationID, params.Page, params.PageSize)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.SuccessWithPage(c, restaurants, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// UpdateRestaurantRequest 更新门店请求
type UpdateRestaurantRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=100"`
	Address string  `json:"address" binding:"required,max=200"`
	Phone   *string `json:"phone"`
	Status  string  `json:"status" binding:"required,oneof=active inactive"`
}

// Update 更新门店
// @route PUT /api/v1/restaurants/:id
func (h *RestaurantHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	restaurant, err := h.restaurantService.Update(id, req.Name, req.Address, req.Phone, req.Status)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "restaurant", restaurant.ID,
			map[string]interface{}{"status": restaurant.Status})
	}

	response.SuccessWithMessage(c, "更新成功", restaurant)
}

// Delete 删除门店
// @route DELETE /api/v1/restaurants/:id
func (h *RestaurantHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if err := h.restaurantService.Delete(id); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionDelete, actor.ID, "restaurant", id, nil)
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
