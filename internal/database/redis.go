package database

import (
	"sync"

	"marlex/pkg/config"
	"marlex/pkg/queue"
)

var (
	orderQueueInstance *queue.OrderQueue
	orderQueueOnce     sync.Once
)

// GetOrderQueue 获取订单事件队列的单例实例
func GetOrderQueue() *queue.OrderQueue {
	orderQueueOnce.Do(func() {
		cfg := config.GetConfig()
		orderQueueInstance = queue.NewOrderQueue(&queue.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	})
	return orderQueueInstance
}

// CloseOrderQueue 关闭Redis连接
func CloseOrderQueue() error {
	if orderQueueInstance != nil {
		return orderQueueInstance.Close()
	}
	return nil
}
