package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog 审计日志，只追加不修改。每次特权变更操作写入一条。
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Action     string         `gorm:"size:50;not null;index" json:"action"`
	ActorID    uint           `gorm:"not null;index" json:"actor_id"`
	EntityType string         `gorm:"size:50;not null" json:"entity_type"`
	EntityID   uint           `gorm:"not null" json:"entity_id"`
	Metadata   datatypes.JSON `json:"metadata"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

// TableName 表名
func (a *AuditLog) TableName() string {
	return "audit_logs"
}

// 审计动作常量
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)
