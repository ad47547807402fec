package handlers

import (
	"strings"

	"marlex/internal/services"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/ordertoken"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
)

// PublicHandler 顾客端处理器，所有接口无需会话认证。
// 下单后签发订单跟踪令牌，顾客凭令牌查询自己的订单状态。
type PublicHandler struct {
	productService *services.ProductService
	orderService   *services.OrderService
	tokenManager   *ordertoken.Manager
}

// NewPublicHandler 创建顾客端处理器
func NewPublicHandler(productService *services.ProductService, orderService *services.OrderService, tokenManager *ordertoken.Manager) *PublicHandler {
	return &PublicHandler{
		productService: productService,
		orderService:   orderService,
		tokenManager:   tokenManager,
	}
}

// Menu 获取门店可售菜品
// @route GET /api/v1/public/restaurants/:id/menu
func (h *PublicHandler) Menu(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	products, err := h.productService.ListAvailable(id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, products)
}

// CreateOrderRequest 顾客下单请求
type CreateOrderRequest struct {
	CustomerName string                    `json:"customer_name" binding:"max=100"`
	TableNumber  string                    `json:"table_number" binding:"max=20"`
	Items        []services.OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderResponse 下单返回，token用于后续查询订单状态
type CreateOrderResponse struct {
	OrderNumber string `json:"order_number"`
	Total       int64  `json:"total"`
	Status      string `json:"status"`
	Token       string `json:"token"`
}

// CreateOrder 顾客下单
// @route POST /api/v1/public/restaurants/:id/orders
func (h *PublicHandler) CreateOrder(c *gin.Context) {
	restaurantID, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	order, err := h.orderService.CreateFromPublic(c.Request.Context(), restaurantID, req.CustomerName, req.TableNumber, req.Items)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	token, err := h.tokenManager.Generate(order.ID, order.RestaurantID, order.Number)
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.KindInternal, "签发订单令牌失败", err))
		c.Abort()
		return
	}

	response.SuccessWithMessage(c, "下单成功", CreateOrderResponse{
		OrderNumber: order.Number,
		Total:       order.Total,
		Status:      order.Status,
		Token:       token,
	})
}

// OrderStatus 凭订单令牌查询订单状态
// @route GET /api/v1/public/orders/status
func (h *PublicHandler) OrderStatus(c *gin.Context) {
	claims, err := h.verifyBearerToken(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	order, err := h.orderService.GetByID(claims.OrderID)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	// 令牌与订单不匹配按无效令牌处理
	if order.Number != claims.OrderNumber {
		_ = c.Error(apperrors.Unauthorized("无效的订单令牌"))
		c.Abort()
		return
	}

	response.Success(c, gin.H{
		"order_number": order.Number,
		"status":       order.Status,
		"total":        order.Total,
		"items":        order.Items,
	})
}

// verifyBearerToken 从Authorization头解析并验证订单令牌
func (h *PublicHandler) verifyBearerToken(c *gin.Context) (*ordertoken.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, apperrors.Unauthorized("缺少订单令牌")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.Unauthorized("令牌格式错误")
	}

	claims, err := h.tokenManager.Verify(parts[1])
	if err != nil {
		return nil, apperrors.Unauthorized("无效的订单令牌")
	}
	return claims, nil
}
