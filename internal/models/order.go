package models

// Order 订单模型
type Order struct {
	BaseModel
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`
	Number       string `gorm:"uniqueIndex;size:64;not null" json:"number"` // 对外订单号
	CustomerName string `gorm:"size:100" json:"customer_name"`
	TableNumber  string `gorm:"size:20" json:"table_number"`
	Status       string `gorm:"size:20;default:'pending';index" json:"status"`
	Total        int64  `gorm:"not null" json:"total"` // 总金额（分）

	// 关联关系
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName 表名
func (o *Order) TableName() string {
	return "orders"
}

// OrderItem 订单条目，下单时固化商品名称与单价
type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	ProductID uint   `gorm:"not null" json:"product_id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Price     int64  `gorm:"not null" json:"price"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

// TableName 表名
func (oi *OrderItem) TableName() string {
	return "order_items"
}

// 订单状态常量
const (
	OrderStatusPending   = "pending"   // 待处理
	OrderStatusPreparing = "preparing" // 制作中
	OrderStatusDelivered = "delivered" // 已交付
	OrderStatusCancelled = "cancelled" // 已取消
)

// ValidOrderStatus 是否为合法的订单状态
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
