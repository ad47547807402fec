package services

import (
	"marlex/internal/models"
	apperrors "marlex/pkg/errors"

	"gorm.io/gorm"
)

// MenuService 功能模块目录服务
type MenuService struct {
	db *gorm.DB
}

// NewMenuService 创建功能模块服务
func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

// List 获取全部功能模块，按编码排序，含细粒度权限定义
func (s *MenuService) List() ([]*models.Menu, error) {
	var menus []*models.Menu
	err := s.db.Preload("SpecificPermissions").Order("code").Find(&menus).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询功能模块失败", err)
	}
	return menus, nil
}

// GetByCode 根据编码获取功能模块
func (s *MenuService) GetByCode(code string) (*models.Menu, error) {
	var menu models.Menu
	err := s.db.Preload("SpecificPermissions").Where("code = ?", code).First(&menu).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("功能模块不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询功能模块失败", err)
	}
	return &menu, nil
}
