package services

import (
	"marlex/internal/models"
	apperrors "marlex/pkg/errors"

	"gorm.io/gorm"
)

// OrganizationService 组织服务
type OrganizationService struct {
	db *gorm.DB
}

// NewOrganizationService 创建组织服务
func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// Create 创建组织
func (s *OrganizationService) Create(name, code string) (*models.Organization, error) {
	var count int64
	s.db.Model(&models.Organization{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, apperrors.Conflict("组织编码已存在")
	}

	org := &models.Organization{
		Name:   name,
		Code:   code,
		Status: models.OrganizationStatusActive,
	}
	if err := s.db.Create(org).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "创建组织失败", err)
	}
	return org, nil
}

// GetByID 根据ID获取组织
func (s *OrganizationService) GetByID(id uint) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("组织不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询组织失败", err)
	}
	return &org, nil
}

// GetWithPage 分页获取组织列表
func (s *OrganizationService) GetWithPage(page, pageSize int) ([]*models.Organization, int64, error) {
	var orgs []*models.Organization
	var total int64

	if err := s.db.Model(&models.Organization{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询组织失败", err)
	}

	offset := (page - 1) * pageSize
	if err := s.db.Offset(offset).Limit(pageSize).Find(&orgs).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询组织失败", err)
	}
	return orgs, total, nil
}

// Update 更新组织
func (s *OrganizationService) Update(id uint, name, status string) (*models.Organization, error) {
	if status != models.OrganizationStatusActive && status != models.OrganizationStatusInactive {
		return nil, apperrors.BadRequest("无效的组织状态")
	}

	org, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	org.Name = name
	org.Status = status
	if err := s.db.Save(org).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "更新组织失败", err)
	}
	return org, nil
}

// Delete 删除组织
func (s *OrganizationService) Delete(id uint) error {
	org, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.Restaurant{}).Where("organization_id = ?", id).Count(&count)
	if count > 0 {
		return apperrors.Conflict("组织下仍有门店，无法删除")
	}
	s.db.Model(&models.User{}).Where("organization_id = ?", id).Count(&count)
	if count > 0 {
		return apperrors.Conflict("组织下仍有用户，无法删除")
	}

	if err := s.db.Delete(org).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "删除组织失败", err)
	}
	return nil
}
