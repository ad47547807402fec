package models

// Organization 组织模型 - 贫血模型，只包含数据结构
type Organization struct {
	BaseModel
	Name   string `json:"name" gorm:"not null;size:100"`
	Code   string `json:"code" gorm:"unique;not null;size:50;index"`
	Status string `json:"status" gorm:"default:'active';size:20"`
}

// TableName 表名
func (o *Organization) TableName() string {
	return "organizations"
}

// 组织状态常量
const (
	OrganizationStatusActive   = "active"
	OrganizationStatusInactive = "inactive"
)
