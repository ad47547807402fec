package services

import (
	"marlex/internal/models"
	apperrors "marlex/pkg/errors"

	"gorm.io/gorm"
)

// 权限解析。角色的授权数据统一归一为"模块代码 → 权限条目"的
// 映射，判定函数是纯函数，相同快照下结果确定。

// MenuPermission 单个功能模块上的权限条目
type MenuPermission struct {
	CanView   bool            `json:"can_view"`
	CanCreate bool            `json:"can_create"`
	CanUpdate bool            `json:"can_update"`
	CanDelete bool            `json:"can_delete"`
	Specific  map[string]bool `json:"specific"` // 细粒度权限代码 → 是否授予
}

// PermissionSet 角色权限快照：模块代码 → 权限条目
type PermissionSet map[string]*MenuPermission

// Resolve 权限判定（纯函数）。action为四个基础操作之一时检查
// 对应布尔位，否则视为细粒度权限代码检查授权表。基础权限与
// 细粒度权限相互独立，互不蕴含。
func Resolve(set PermissionSet, menuCode, action string) error {
	entry, ok := set[menuCode]
	if !ok {
		return apperrors.Forbidden("无权访问模块: " + menuCode)
	}

	var granted bool
	switch action {
	case models.ActionView:
		granted = entry.CanView
	case models.ActionCreate:
		granted = entry.CanCreate
	case models.ActionUpdate:
		granted = entry.CanUpdate
	case models.ActionDelete:
		granted = entry.CanDelete
	default:
		granted = entry.Specific[action]
	}

	if !granted {
		return apperrors.Forbidden("权限不足: " + menuCode + ":" + action)
	}
	return nil
}

// PermissionService 权限服务
type PermissionService struct {
	db *gorm.DB
}

// NewPermissionService 创建权限服务
func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// LoadSet 加载角色的权限快照
func (s *PermissionService) LoadSet(roleID uint) (PermissionSet, error) {
	var roleMenus []models.RoleMenu
	err := s.db.Where("role_id = ?", roleID).
		Preload("Menu").
		Preload("Specific.SpecificPermission").
		Find(&roleMenus).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "加载角色权限失败", err)
	}

	set := make(PermissionSet, len(roleMenus))
	for _, rm := range roleMenus {
		if rm.Menu == nil {
			continue
		}
		entry := &MenuPermission{
			CanView:   rm.CanView,
			CanCreate: rm.CanCreate,
			CanUpdate: rm.CanUpdate,
			CanDelete: rm.CanDelete,
			Specific:  make(map[string]bool, len(rm.Specific)),
		}
		for _, sp := range rm.Specific {
			if sp.SpecificPermission != nil {
				entry.Specific[sp.SpecificPermission.Code] = sp.Granted
			}
		}
		set[rm.Menu.Code] = entry
	}

	return set, nil
}

// Check 加载权限快照并判定
func (s *PermissionService) Check(user *models.User, menuCode, action string) error {
	if user == nil {
		return apperrors.Unauthorized("请先登录")
	}
	set, err := s.LoadSet(user.RoleID)
	if err != nil {
		return err
	}
	return Resolve(set, menuCode, action)
}
