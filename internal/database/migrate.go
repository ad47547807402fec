package database

import (
	"marlex/internal/models"
	"marlex/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("开始数据库迁移...")

	err := DB.AutoMigrate(
		&models.Organization{},
		&models.Restaurant{},
		&models.Menu{},
		&models.SpecificPermission{},
		&models.Role{},
		&models.RoleMenu{},
		&models.RoleMenuSpecificPermission{},
		&models.User{},
		&models.Session{},
		&models.AuditLog{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)

	if err != nil {
		appLogger.Errorf("数据库迁移失败: %v", err)
		return err
	}

	appLogger.Info("数据库迁移完成")
	return nil
}
