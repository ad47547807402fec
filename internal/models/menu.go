package models

// Menu 功能模块（权限粒度单位），如 "products"、"employees"
type Menu struct {
	BaseModel
	Code string `gorm:"uniqueIndex;size:50;not null" json:"code"` // 模块代码，如 "products"
	Name string `gorm:"size:100;not null" json:"name"`            // 模块名称，如 "商品管理"

	// 关联关系
	SpecificPermissions []SpecificPermission `gorm:"foreignKey:MenuID" json:"specific_permissions,omitempty"`
}

// TableName 表名
func (m *Menu) TableName() string {
	return "menus"
}

// 功能模块代码常量
const (
	MenuOrganizations = "organizations" // 组织管理
	MenuRestaurants   = "restaurants"   // 餐厅管理
	MenuEmployees     = "employees"     // 员工管理
	MenuRoles         = "roles"         // 角色管理
	MenuCategories    = "categories"    // 分类管理
	MenuProducts      = "products"      // 商品管理
	MenuOrders        = "orders"        // 订单管理
	MenuAudit         = "audit"         // 审计日志
	MenuSystem        = "system"        // 系统维护
)

// 基础权限操作常量
const (
	ActionView   = "view"   // 查看
	ActionCreate = "create" // 创建
	ActionUpdate = "update" // 更新
	ActionDelete = "delete" // 删除
)

// RoleMenu 角色对功能模块的权限条目，每个(角色,模块)至多一条
type RoleMenu struct {
	BaseModel
	RoleID    uint `gorm:"not null;uniqueIndex:idx_role_menu" json:"role_id"`
	MenuID    uint `gorm:"not null;uniqueIndex:idx_role_menu" json:"menu_id"`
	CanView   bool `gorm:"default:false" json:"can_view"`
	CanCreate bool `gorm:"default:false" json:"can_create"`
	CanUpdate bool `gorm:"default:false" json:"can_update"`
	CanDelete bool `gorm:"default:false" json:"can_delete"`

	// 关联关系
	Menu     *Menu                        `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	Specific []RoleMenuSpecificPermission `gorm:"foreignKey:RoleMenuID;constraint:OnDelete:CASCADE" json:"specific,omitempty"`
}

// TableName 表名
func (rm *RoleMenu) TableName() string {
	return "role_menus"
}

// SpecificPermission 模块下的细粒度操作，独立于四个基础权限
type SpecificPermission struct {
	BaseModel
	MenuID uint   `gorm:"not null;uniqueIndex:idx_menu_specific" json:"menu_id"`
	Code   string `gorm:"size:50;not null;uniqueIndex:idx_menu_specific" json:"code"` // 如 "UPDATE_STATUS"
	Name   string `gorm:"size:100;not null" json:"name"`                              // 如 "修改订单状态"
}

// TableName 表名
func (sp *SpecificPermission) TableName() string {
	return "specific_permissions"
}

// 细粒度权限代码常量
const (
	SpecificUpdateStatus = "UPDATE_STATUS" // 修改订单状态
	SpecificExportData   = "EXPORT_DATA"   // 导出数据
	SpecificRunCleanup   = "RUN_CLEANUP"   // 手动触发会话清理
)

// RoleMenuSpecificPermission 角色权限条目与细粒度操作的授权关系
type RoleMenuSpecificPermission struct {
	ID                   uint `gorm:"primaryKey" json:"id"`
	RoleMenuID           uint `gorm:"not null;uniqueIndex:idx_rolemenu_specific" json:"role_menu_id"`
	SpecificPermissionID uint `gorm:"not null;uniqueIndex:idx_rolemenu_specific" json:"specific_permission_id"`
	Granted              bool `gorm:"default:false" json:"granted"`

	// 关联关系
	SpecificPermission *SpecificPermission `gorm:"foreignKey:SpecificPermissionID" json:"specific_permission,omitempty"`
}

// TableName 表名
func (rms *RoleMenuSpecificPermission) TableName() string {
	return "role_menu_specific_permissions"
}
