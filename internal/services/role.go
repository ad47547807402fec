package services

import (
	"unicode/utf8"

	"marlex/internal/models"
	apperrors "marlex/pkg/errors"

	"gorm.io/gorm"
)

// RoleService 角色服务
type RoleService struct {
	db *gorm.DB
}

// NewRoleService 创建角色服务
func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建角色
func (s *RoleService) Create(organizationID *uint, name, description string) (*models.Role, error) {
	if !validRoleName(name) {
		return nil, apperrors.BadRequest("角色名称长度必须在2-50个字符之间")
	}

	// 同一组织内名称不可重复，全局角色之间同理
	query := s.db.Model(&models.Role{}).Where("name = ?", name)
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	} else {
		query = query.Where("organization_id IS NULL")
	}
	var count int64
	query.Count(&count)
	if count > 0 {
		return nil, apperrors.Conflict("角色名称已存在")
	}

	role := &models.Role{
		OrganizationID: organizationID,
		Name:           name,
		Description:    description,
		IsSystem:       false,
	}

	if err := s.db.Create(role).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "创建角色失败", err)
	}
	return role, nil
}

// GetByID 根据ID获取角色（含权限条目）
func (s *RoleService) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := s.db.Preload("RoleMenus.Menu").
		Preload("RoleMenus.Specific.SpecificPermission").
		First(&role, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("角色不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询角色失败", err)
	}
	return &role, nil
}

// GetWithPage 分页获取角色列表
func (s *RoleService) GetWithPage(organizationID *uint, page, pageSize int) ([]*models.Role, int64, error) {
	var roles []*models.Role
	var total int64

	query := s.db.Model(&models.Role{})
	if organizationID != nil {
		// 组织能看到自己的角色和全局角色
		query = query.Where("organization_id = ? OR organization_id IS NULL", *organizationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询角色失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("RoleMenus.Menu").Offset(offset).Limit(pageSize).Find(&roles).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询角色失败", err)
	}

	return roles, total, nil
}

// Update 更新角色
func (s *RoleService) Update(id uint, name, description string) (*models.Role, error) {
	if !validRoleName(name) {
		return nil, apperrors.BadRequest("角色名称长度必须在2-50个字符之间")
	}

	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("角色不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询角色失败", err)
	}

	if role.IsSystem {
		return nil, apperrors.Forbidden("系统角色不允许修改")
	}

	role.Name = name
	role.Description = description

	if err := s.db.Save(&role).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "更新角色失败", err)
	}
	return &role, nil
}

// Delete 删除角色，权限条目级联删除
func (s *RoleService) Delete(id uint) error {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("角色不存在")
		}
		return apperrors.Wrap(apperrors.KindInternal, "查询角色失败", err)
	}

	if role.IsSystem {
		return apperrors.Forbidden("系统角色不允许删除")
	}

	// 仍有用户挂在该角色上时不允许删除
	var count int64
	s.db.Model(&models.User{}).Where("role_id = ?", id).Count(&count)
	if count > 0 {
		return apperrors.Conflict("角色仍被用户使用，无法删除")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteRoleMenusTx(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(&role).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "删除角色失败", err)
		}
		return nil
	})
}

// ========== 权限管理方法 ==========

// SpecificGrant 细粒度权限授权项
type SpecificGrant struct {
	SpecificPermissionID uint `json:"specific_permission_id" binding:"required"`
	Granted              bool `json:"granted"`
}

// MenuGrant 单个功能模块的授权项
type MenuGrant struct {
	MenuID    uint            `json:"menu_id" binding:"required"`
	CanView   bool            `json:"can_view"`
	CanCreate bool            `json:"can_create"`
	CanUpdate bool            `json:"can_update"`
	CanDelete bool            `json:"can_delete"`
	Specific  []SpecificGrant `json:"specific"`
}

// ReplacePermissions 整体替换角色的权限条目。
// 删除加重建在同一个事务里执行，中途失败整体回滚，
// 不会留下残缺的权限集。
func (s *RoleService) ReplacePermissions(roleID uint, grants []MenuGrant) error {
	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("角色不存在")
		}
		return apperrors.Wrap(apperrors.KindInternal, "查询角色失败", err)
	}

	// 同一个模块不允许出现两条授权
	seen := make(map[uint]bool, len(grants))
	for _, g := range grants {
		if seen[g.MenuID] {
			return apperrors.BadRequest("同一个模块出现了重复的授权项")
		}
		seen[g.MenuID] = true
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteRoleMenusTx(tx, roleID); err != nil {
			return err
		}

		for _, g := range grants {
			var menu models.Menu
			if err := tx.First(&menu, g.MenuID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.NotFound("功能模块不存在")
				}
				return apperrors.Wrap(apperrors.KindInternal, "查询功能模块失败", err)
			}

			roleMenu := &models.RoleMenu{
				RoleID:    roleID,
				MenuID:    g.MenuID,
				CanView:   g.CanView,
				CanCreate: g.CanCreate,
				CanUpdate: g.CanUpdate,
				CanDelete: g.CanDelete,
			}
			if err := tx.Create(roleMenu).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, "创建权限条目失败", err)
			}

			for _, sg := range g.Specific {
				var sp models.SpecificPermission
				if err := tx.First(&sp, sg.SpecificPermissionID).Error; err != nil {
					if err == gorm.ErrRecordNotFound {
						return apperrors.NotFound("细粒度权限不存在")
					}
					return apperrors.Wrap(apperrors.KindInternal, "查询细粒度权限失败", err)
				}
				// 细粒度权限必须挂在对应模块下
				if sp.MenuID != g.MenuID {
					return apperrors.BadRequest("细粒度权限不属于该模块")
				}

				grant := &models.RoleMenuSpecificPermission{
					RoleMenuID:           roleMenu.ID,
					SpecificPermissionID: sg.SpecificPermissionID,
					Granted:              sg.Granted,
				}
				if err := tx.Create(grant).Error; err != nil {
					return apperrors.Wrap(apperrors.KindInternal, "创建细粒度授权失败", err)
				}
			}
		}
		return nil
	})
}

// deleteRoleMenusTx 事务内删除角色的全部权限条目及细粒度授权
func deleteRoleMenusTx(tx *gorm.DB, roleID uint) error {
	var roleMenuIDs []uint
	if err := tx.Model(&models.RoleMenu{}).Where("role_id = ?", roleID).
		Pluck("id", &roleMenuIDs).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "查询权限条目失败", err)
	}

	if len(roleMenuIDs) > 0 {
		if err := tx.Where("role_menu_id IN ?", roleMenuIDs).
			Delete(&models.RoleMenuSpecificPermission{}).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "删除细粒度授权失败", err)
		}
	}
	if err := tx.Where("role_id = ?", roleID).Delete(&models.RoleMenu{}).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "删除权限条目失败", err)
	}
	return nil
}

// validRoleName 角色名称长度校验
func validRoleName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 50
}
