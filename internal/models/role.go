package models

// Role 角色模型
type Role struct {
	BaseModel
	OrganizationID *uint  `gorm:"index" json:"organization_id"`          // 所属组织（空表示全局角色）
	Name           string `gorm:"size:100;not null" json:"name"`         // 角色名称，如 "店长"
	Description    string `gorm:"size:255" json:"description"`           // 角色描述
	IsSystem       bool   `gorm:"default:false" json:"is_system"`        // 是否系统角色（不可删除）

	// 关联关系
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	RoleMenus    []RoleMenu    `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"role_menus,omitempty"`
}

// TableName 表名
func (r *Role) TableName() string {
	return "roles"
}

// 系统预定义角色常量
const (
	RoleSuperAdmin = "Super Admin" // 平台超级管理员
)
