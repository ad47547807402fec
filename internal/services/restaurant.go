package services

import (
	"marlex/internal/models"
	apperrors "marlex/pkg/errors"

	"gorm.io/gorm"
)

// RestaurantService 门店服务
type RestaurantService struct {
	db *gorm.DB
}

// NewRestaurantService 创建门店服务
func NewRestaurantService(db *gorm.DB) *RestaurantService {
	return &RestaurantService{db: db}
}

// Create 创建门店
func (s *RestaurantService) Create(organizationID uint, name, address string, phone *string) (*models.Restaurant, error) {
	var org models.Organization
	if err := s.db.First(&org, organizationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("组织不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询组织失败", err)
	}

	restaurant := &models.Restaurant{
		OrganizationID: organizationID,
		Name:           name,
		Address:        address,
		Phone:          phone,
		Status:         models.RestaurantStatusActive,
	}
	if err := s.db.Create(restaurant).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "创建门店失败", err)
	}
	return restaurant, nil
}

// GetByID 根据ID获取门店
func (s *RestaurantService) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.Preload("Organization").First(&restaurant, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("门店不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询门店失败", err)
	}
	return &restaurant, nil
}

// GetWithPage 分页获取门店列表，可按组织过滤
func (s *RestaurantService) GetWithPage(organizationID *uint, page, pageSize int) ([]*models.Restaurant, int64, error) {
	var restaurants []*models.Restaurant
	var total int64

	query := s.db.Model(&models.Restaurant{})
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询门店失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Organization").Offset(offset).Limit(pageSize).Find(&restaurants).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询门店失败", err)
	}
	return restaurants, total, nil
}

// Update 更新门店
func (s *RestaurantService) Update(id uint, name, address string, phone *string, status string) (*models.Restaurant, error) {
	if status != models.RestaurantStatusActive && status != models.RestaurantStatusInactive {
		return nil, apperrors.BadRequest("无效的门店状态")
	}

	restaurant, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	restaurant.Name = name
	restaurant.Address = address
	restaurant.Phone = phone
	restaurant.Status = status
	if err := s.db.Save(restaurant).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "更新门店失败", err)
	}
	return restaurant, nil
}

// Delete 删除门店
func (s *RestaurantService) Delete(id uint) error {
	restaurant, err := s.GetByID(id)
	if err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.User{}).Where("restaurant_id = ?", id).Count(&count)
	if count > 0 {
		return apperrors.Conflict("门店下仍有员工，无法删除")
	}

	if err := s.db.Delete(restaurant).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "删除门店失败", err)
	}
	return nil
}
