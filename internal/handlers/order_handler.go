package handlers

import (
	"marlex/internal/middleware"
	"marlex/internal/models"
	"marlex/internal/services"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/pagination"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// OrderHandler 后台订单处理器
type OrderHandler struct {
	orderService *services.OrderService
	auditService *services.AuditService
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(orderService *services.OrderService, auditService *services.AuditService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		auditService: auditService,
	}
}

// Get 获取订单详情
// @route GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	order, err := h.orderService.GetByID(id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, order)
}

// List 分页获取门店订单
// @route GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	restaurantID, err := parseRestaurantIDQuery(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	params := pagination.ParsePageParams(c)
	status := c.Query("status")

	orders, total, err := h.orderService.GetWithPage(restaurantID, status, params.Page, params.PageSize)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.SuccessWithPage(c, orders, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending preparing delivered cancelled"`
}

// UpdateStatus 更新订单状态，需要UPDATE_STATUS细粒度权限
// @route PUT /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 校验失败时给出字段级的友好提示
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				if fieldErr.Field() == "Status" {
					_ = c.Error(apperrors.BadRequest("状态只能是pending、preparing、delivered或cancelled"))
					c.Abort()
					return
				}
			}
		}
		_ = c.Error(apperrors.BadRequest("请求参数格式错误"))
		c.Abort()
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "order", order.ID,
			map[string]interface{}{"status": order.Status})
	}

	response.SuccessWithMessage(c, "订单状态已更新", order)
}
