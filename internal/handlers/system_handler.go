package handlers

import (
	"time"

	"marlex/internal/middleware"
	"marlex/internal/models"
	"marlex/internal/services"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
)

// SystemHandler 系统运维处理器
type SystemHandler struct {
	cleanupService *services.SessionCleanupService
	auditService   *services.AuditService
	startedAt      time.Time
}

// NewSystemHandler 创建系统处理器
func NewSystemHandler(cleanupService *services.SessionCleanupService, auditService *services.AuditService) *SystemHandler {
	return &SystemHandler{
		cleanupService: cleanupService,
		auditService:   auditService,
		startedAt:      time.Now(),
	}
}

// Health 健康检查
// @route GET /api/v1/health
func (h *SystemHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

// Ping 连通性检查
// @route GET /api/v1/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	response.Success(c, gin.H{"message": "pong"})
}

// CleanupSessions 手动触发会话清理，返回清理数量。
// 需要RUN_CLEANUP细粒度权限，定时任务之外的应急入口。
// @route POST /api/v1/system/sessions/cleanup
func (h *SystemHandler) CleanupSessions(c *gin.Context) {
	affected, err := h.cleanupService.Sweep()
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "session", 0,
			map[string]interface{}{"operation": "cleanup", "affected": affected})
	}

	response.SuccessWithMessage(c, "会话清理完成", gin.H{"affected": affected})
}
