package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// OrderQueue 基于Redis发布订阅的订单事件队列，
// 后台通过WebSocket订阅推送给在线的管理端
type OrderQueue struct {
	client *redis.Client
	prefix string
}

// 订单事件类型
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

// OrderEvent 订单事件消息
type OrderEvent struct {
	Type         string `json:"type"`
	OrderID      uint   `json:"order_id"`
	RestaurantID uint   `json:"restaurant_id"`
	OrderNumber  string `json:"order_number"`
	Status       string `json:"status"`
	Total        int64  `json:"total"`
	Created      int64  `json:"created"`
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// NewOrderQueue 创建订单事件队列实例
func NewOrderQueue(config *Config) *OrderQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "marlex:orders"
	}

	return &OrderQueue{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (q *OrderQueue) Close() error {
	return q.client.Close()
}

// Ping 测试Redis连接
func (q *OrderQueue) Ping() error {
	ctx := context.Background()
	return q.client.Ping(ctx).Err()
}

// channel 事件频道名
func (q *OrderQueue) channel() string {
	return q.prefix + ":events"
}

// Publish 发布订单事件
func (q *OrderQueue) Publish(ctx context.Context, event *OrderEvent) error {
	if event.Created == 0 {
		event.Created = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化订单事件失败: %v", err)
	}

	return q.client.Publish(ctx, q.channel(), data).Err()
}

// Subscribe 订阅订单事件，返回事件通道，context取消后通道关闭
func (q *OrderQueue) Subscribe(ctx context.Context) (<-chan *OrderEvent, error) {
	sub := q.client.Subscribe(ctx, q.channel())

	// 确认订阅成功
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("订阅订单事件失败: %v", err)
	}

	events := make(chan *OrderEvent, 16)
	go func() {
		defer close(events)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event OrderEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case events <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
