package services

import (
	"marlex/internal/models"
	apperrors "marlex/pkg/errors"

	"gorm.io/gorm"
)

// UserService 员工用户服务
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUserParams 创建用户参数
type CreateUserParams struct {
	Email          string
	Password       string
	Name           string
	Phone          *string
	RoleID         uint
	OrganizationID *uint
	RestaurantID   *uint
}

// Create 创建用户，邮箱统一小写存储
func (s *UserService) Create(params CreateUserParams) (*models.User, error) {
	email := models.NormalizeEmail(params.Email)

	// 邮箱唯一性检查（含软删除用户，邮箱不可复用）
	var count int64
	s.db.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperrors.Conflict("邮箱已被占用")
	}

	var role models.Role
	if err := s.db.First(&role, params.RoleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("角色不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询角色失败", err)
	}

	user := &models.User{
		Email:          email,
		Name:           params.Name,
		Phone:          params.Phone,
		Status:         models.UserStatusActive,
		RoleID:         params.RoleID,
		OrganizationID: params.OrganizationID,
		RestaurantID:   params.RestaurantID,
	}
	if err := user.SetPassword(params.Password); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "密码加密失败", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "创建用户失败", err)
	}
	return user, nil
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Role").Preload("Organization").Preload("Restaurant").
		First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("用户不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}
	return &user, nil
}

// GetWithPage 分页获取用户列表
func (s *UserService) GetWithPage(organizationID *uint, status string, page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{})
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Role").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}

	return users, total, nil
}

// UpdateUserParams 更新用户参数
type UpdateUserParams struct {
	Name         string
	Phone        *string
	Status       string
	RoleID       uint
	RestaurantID *uint
}

// Update 更新用户
func (s *UserService) Update(id uint, params UpdateUserParams) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if params.Status != models.UserStatusActive && params.Status != models.UserStatusInactive {
		return nil, apperrors.BadRequest("状态只能是active或inactive")
	}

	if params.RoleID != user.RoleID {
		var role models.Role
		if err := s.db.First(&role, params.RoleID).Error; err != nil {
			return nil, apperrors.NotFound("角色不存在")
		}
	}

	user.Name = params.Name
	user.Phone = params.Phone
	user.Status = params.Status
	user.RoleID = params.RoleID
	user.RestaurantID = params.RestaurantID

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "更新用户失败", err)
	}
	return user, nil
}

// Delete 软删除用户，并将其全部会话置为无效
func (s *UserService) Delete(id uint) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("用户不存在")
		}
		return apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&user).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "删除用户失败", err)
		}
		if err := tx.Model(&models.Session{}).Where("user_id = ?", id).
			UpdateColumn("valid", false).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "注销用户会话失败", err)
		}
		return nil
	})
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(id uint, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("用户不存在")
		}
		return apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "密码加密失败", err)
	}

	if err := s.db.Model(&user).UpdateColumn("password_hash", user.PasswordHash).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "重置密码失败", err)
	}
	return nil
}
