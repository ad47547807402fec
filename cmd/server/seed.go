package main

import (
	"fmt"

	"marlex/internal/models"
	"marlex/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据，幂等：已存在的数据不重复创建
func seedData(db *gorm.DB) error {
	if err := seedMenus(db); err != nil {
		return err
	}
	if err := seedSuperAdmin(db); err != nil {
		return err
	}
	return seedDemoData(db)
}

// menuSeed 功能模块定义
type menuSeed struct {
	Code     string
	Name     string
	Specific map[string]string // 细粒度权限代码 → 名称
}

var menuSeeds = []menuSeed{
	{Code: models.MenuOrganizations, Name: "组织管理"},
	{Code: models.MenuRestaurants, Name: "餐厅管理"},
	{Code: models.MenuEmployees, Name: "员工管理"},
	{Code: models.MenuRoles, Name: "角色管理"},
	{Code: models.MenuCategories, Name: "分类管理"},
	{Code: models.MenuProducts, Name: "商品管理", Specific: map[string]string{
		models.SpecificExportData: "导出数据",
	}},
	{Code: models.MenuOrders, Name: "订单管理", Specific: map[string]string{
		models.SpecificUpdateStatus: "修改订单状态",
	}},
	{Code: models.MenuAudit, Name: "审计日志"},
	{Code: models.MenuSystem, Name: "系统维护", Specific: map[string]string{
		models.SpecificRunCleanup: "手动清理会话",
	}},
}

// seedMenus 初始化功能模块目录及细粒度权限定义
func seedMenus(db *gorm.DB) error {
	for _, seed := range menuSeeds {
		var menu models.Menu
		err := db.Where("code = ?", seed.Code).First(&menu).Error
		if err == gorm.ErrRecordNotFound {
			menu = models.Menu{Code: seed.Code, Name: seed.Name}
			if err := db.Create(&menu).Error; err != nil {
				return fmt.Errorf("创建功能模块 %s 失败: %w", seed.Code, err)
			}
		} else if err != nil {
			return fmt.Errorf("查询功能模块 %s 失败: %w", seed.Code, err)
		}

		for code, name := range seed.Specific {
			var sp models.SpecificPermission
			err := db.Where("menu_id = ? AND code = ?", menu.ID, code).First(&sp).Error
			if err == gorm.ErrRecordNotFound {
				sp = models.SpecificPermission{MenuID: menu.ID, Code: code, Name: name}
				if err := db.Create(&sp).Error; err != nil {
					return fmt.Errorf("创建细粒度权限 %s 失败: %w", code, err)
				}
			} else if err != nil {
				return fmt.Errorf("查询细粒度权限 %s 失败: %w", code, err)
			}
		}
	}
	return nil
}

// seedSuperAdmin 初始化超级管理员角色与账号，授予全部权限
func seedSuperAdmin(db *gorm.DB) error {
	var role models.Role
	err := db.Where("name = ? AND organization_id IS NULL", models.RoleSuperAdmin).First(&role).Error
	if err == gorm.ErrRecordNotFound {
		role = models.Role{
			Name:        models.RoleSuperAdmin,
			Description: "超级管理员，拥有全部权限",
			IsSystem:    true,
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("创建超级管理员角色失败: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("查询超级管理员角色失败: %w", err)
	}

	// 为超级管理员授予全部模块的全部权限
	var menus []models.Menu
	if err := db.Preload("SpecificPermissions").Find(&menus).Error; err != nil {
		return fmt.Errorf("查询功能模块失败: %w", err)
	}

	for _, menu := range menus {
		var roleMenu models.RoleMenu
		err := db.Where("role_id = ? AND menu_id = ?", role.ID, menu.ID).First(&roleMenu).Error
		if err == gorm.ErrRecordNotFound {
			roleMenu = models.RoleMenu{
				RoleID:    role.ID,
				MenuID:    menu.ID,
				CanView:   true,
				CanCreate: true,
				CanUpdate: true,
				CanDelete: true,
			}
			if err := db.Create(&roleMenu).Error; err != nil {
				return fmt.Errorf("创建超级管理员权限条目失败: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("查询权限条目失败: %w", err)
		}

		for _, sp := range menu.SpecificPermissions {
			var grant models.RoleMenuSpecificPermission
			err := db.Where("role_menu_id = ? AND specific_permission_id = ?", roleMenu.ID, sp.ID).First(&grant).Error
			if err == gorm.ErrRecordNotFound {
				grant = models.RoleMenuSpecificPermission{
					RoleMenuID:           roleMenu.ID,
					SpecificPermissionID: sp.ID,
					Granted:              true,
				}
				if err := db.Create(&grant).Error; err != nil {
					return fmt.Errorf("创建超级管理员细粒度授权失败: %w", err)
				}
			} else if err != nil {
				return fmt.Errorf("查询细粒度授权失败: %w", err)
			}
		}
	}

	// 超级管理员账号
	var count int64
	db.Unscoped().Model(&models.User{}).Where("email = ?", "marlex@test.com").Count(&count)
	if count == 0 {
		user := models.User{
			Email:  "marlex@test.com",
			Name:   "超级管理员",
			Status: models.UserStatusActive,
			RoleID: role.ID,
		}
		if err := user.SetPassword("super123"); err != nil {
			return fmt.Errorf("设置超级管理员密码失败: %w", err)
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("创建超级管理员账号失败: %w", err)
		}
		logger.GetLogger().Info("已创建超级管理员账号 marlex@test.com")
	}

	return nil
}

// seedDemoData 初始化演示用的组织、门店与菜品
func seedDemoData(db *gorm.DB) error {
	var count int64
	db.Model(&models.Organization{}).Count(&count)
	if count > 0 {
		return nil
	}

	org := models.Organization{
		Name:   "演示餐饮集团",
		Code:   "demo",
		Status: models.OrganizationStatusActive,
	}
	if err := db.Create(&org).Error; err != nil {
		return fmt.Errorf("创建演示组织失败: %w", err)
	}

	restaurant := models.Restaurant{
		OrganizationID: org.ID,
		Name:           "演示门店",
		Address:        "演示地址1号",
		Status:         models.RestaurantStatusActive,
	}
	if err := db.Create(&restaurant).Error; err != nil {
		return fmt.Errorf("创建演示门店失败: %w", err)
	}

	category := models.Category{
		RestaurantID: restaurant.ID,
		Name:         "招牌菜",
		Sort:         1,
	}
	if err := db.Create(&category).Error; err != nil {
		return fmt.Errorf("创建演示分类失败: %w", err)
	}

	product := models.Product{
		RestaurantID: restaurant.ID,
		CategoryID:   category.ID,
		Name:         "招牌牛肉面",
		Description:  "每日现做",
		Price:        2800,
		Available:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		return fmt.Errorf("创建演示菜品失败: %w", err)
	}

	return nil
}
