package handlers

import (
	"marlex/internal/services"
	"marlex/pkg/pagination"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuditHandler 审计日志处理器
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler 创建审计日志处理器
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List 分页获取审计日志，可按操作类型与实体类型过滤
// @route GET /api/v1/audit-logs
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	action := c.Query("action")
	entityType := c.Query("entity_type")

	entries, total, err := h.auditService.GetWithPage(action, entityType, params.Page, params.PageSize)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.SuccessWithPage(c, entries, pagination.NewPageInfo(params.Page, params.PageSize, total))
}
