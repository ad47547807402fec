package services

import (
	"encoding/json"

	"marlex/internal/models"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService 审计日志服务，只追加
type AuditService struct {
	db *gorm.DB
}

// NewAuditService 创建审计日志服务
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record 记录一次特权变更操作。审计失败只记日志，不阻断业务。
func (s *AuditService) Record(action string, actorID uint, entityType string, entityID uint, metadata map[string]interface{}) {
	entry := &models.AuditLog{
		Action:     action,
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
	}

	if len(metadata) > 0 {
		if data, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(data)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.GetLogger().Errorf("写入审计日志失败: action=%s entity=%s/%d: %v",
			action, entityType, entityID, err)
	}
}

// GetWithPage 分页查询审计日志
func (s *AuditService) GetWithPage(action, entityType string, page, pageSize int) ([]*models.AuditLog, int64, error) {
	var entries []*models.AuditLog
	var total int64

	query := s.db.Model(&models.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询审计日志失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&entries).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询审计日志失败", err)
	}

	return entries, total, nil
}
