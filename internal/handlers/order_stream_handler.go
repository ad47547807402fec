package handlers

import (
	"context"
	"net/http"
	"time"

	"marlex/pkg/config"
	"marlex/pkg/logger"
	"marlex/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// OrderStreamHandler 订单实时推送处理器。
// 管理端通过WebSocket订阅订单事件，新订单与状态变更实时推送。
type OrderStreamHandler struct {
	queue    *queue.OrderQueue
	upgrader websocket.Upgrader
}

// 心跳与写超时
const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

// NewOrderStreamHandler 创建订单推送处理器
func NewOrderStreamHandler(q *queue.OrderQueue) *OrderStreamHandler {
	cfg := config.GetConfig()
	allowed := make(map[string]bool, len(cfg.CORS.AllowOrigins))
	allowAll := false
	for _, origin := range cfg.CORS.AllowOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return &OrderStreamHandler{
		queue: q,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Stream 建立WebSocket连接并推送订单事件
// @route GET /api/v1/orders/stream
func (h *OrderStreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().WithError(err).Warn("WebSocket升级失败")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, err := h.queue.Subscribe(ctx)
	if err != nil {
		logger.GetLogger().WithError(err).Error("订阅订单事件失败")
		return
	}

	// 读协程只负责探测连接关闭
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
