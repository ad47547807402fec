package models

// Restaurant 餐厅模型
type Restaurant struct {
	BaseModel
	OrganizationID uint    `json:"organization_id" gorm:"not null;index"`
	Name           string  `json:"name" gorm:"not null;size:100"`
	Address        string  `json:"address" gorm:"size:255"`
	Phone          *string `json:"phone" gorm:"size:20"`
	Status         string  `json:"status" gorm:"default:'active';size:20"`

	// 关联关系
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// TableName 表名
func (r *Restaurant) TableName() string {
	return "restaurants"
}

// 餐厅状态常量
const (
	RestaurantStatusActive   = "active"
	RestaurantStatusInactive = "inactive"
)
