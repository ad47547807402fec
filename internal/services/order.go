package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"marlex/internal/models"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/logger"
	"marlex/pkg/queue"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	db    *gorm.DB
	queue *queue.OrderQueue
}

// NewOrderService 创建订单服务，queue可为nil（不推送事件）
func NewOrderService(db *gorm.DB, q *queue.OrderQueue) *OrderService {
	return &OrderService{db: db, queue: q}
}

// OrderItemInput 顾客下单的菜品条目
type OrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=99"`
}

// 订单状态流转表
var orderTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusDelivered, models.OrderStatusCancelled},
}

// canTransition 订单状态是否允许流转
func canTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateFromPublic 顾客端创建订单。
// 金额以数据库中的商品单价为准重新计算，不信任客户端传来的价格。
func (s *OrderService) CreateFromPublic(ctx context.Context, restaurantID uint, customerName, tableNumber string, items []OrderItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.BadRequest("订单不能为空")
	}

	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("门店不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询门店失败", err)
	}
	if restaurant.Status != models.RestaurantStatusActive {
		return nil, apperrors.Forbidden("门店已停业")
	}

	order := &models.Order{
		RestaurantID: restaurantID,
		Number:       generateOrderNumber(),
		CustomerName: customerName,
		TableNumber:  tableNumber,
		Status:       models.OrderStatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var total int64
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.NotFound("菜品不存在")
				}
				return apperrors.Wrap(apperrors.KindInternal, "查询菜品失败", err)
			}
			if product.RestaurantID != restaurantID {
				return apperrors.BadRequest("菜品不属于该门店")
			}
			if !product.Available {
				return apperrors.Conflict("菜品已下架: " + product.Name)
			}

			total += product.Price * int64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
		}

		order.Total = total
		order.Items = orderItems
		if err := tx.Create(order).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "创建订单失败", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, queue.EventOrderCreated, order)
	return order, nil
}

// GetByID 根据ID获取订单
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("订单不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询订单失败", err)
	}
	return &order, nil
}

// GetByNumber 根据订单号获取订单
func (s *OrderService) GetByNumber(number string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("number = ?", number).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("订单不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询订单失败", err)
	}
	return &order, nil
}

// GetWithPage 分页获取门店订单，可按状态过滤
func (s *OrderService) GetWithPage(restaurantID uint, status string, page, pageSize int) ([]*models.Order, int64, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, 0, apperrors.BadRequest("无效的订单状态")
	}

	var orders []*models.Order
	var total int64

	query := s.db.Model(&models.Order{}).Where("restaurant_id = ?", restaurantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询订单失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Items").Order("id DESC").Offset(offset).Limit(pageSize).Find(&orders).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询订单失败", err)
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态，校验状态流转合法性
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.BadRequest("无效的订单状态")
	}

	order, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !canTransition(order.Status, status) {
		return nil, apperrors.Conflict(fmt.Sprintf("订单状态不允许从 %s 变更为 %s", order.Status, status))
	}

	if err := s.db.Model(order).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "更新订单状态失败", err)
	}
	order.Status = status

	s.publishEvent(ctx, queue.EventOrderStatusChanged, order)
	return order, nil
}

// publishEvent 推送订单事件，失败只记日志不影响主流程
func (s *OrderService) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.queue == nil {
		return
	}

	event := &queue.OrderEvent{
		Type:         eventType,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		OrderNumber:  order.Number,
		Status:       order.Status,
		Total:        order.Total,
	}
	if err := s.queue.Publish(ctx, event); err != nil {
		logger.GetLogger().WithError(err).WithField("order_id", order.ID).Warn("推送订单事件失败")
	}
}

// generateOrderNumber 生成对外订单号，时间戳加随机后缀
func generateOrderNumber() string {
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		suffix = big.NewInt(time.Now().UnixNano() % 10000)
	}
	return fmt.Sprintf("ORD%s%04d", time.Now().Format("20060102150405"), suffix.Int64())
}
