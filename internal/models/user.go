package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	BaseModel
	Email        string         `json:"email" gorm:"unique;not null;size:100;index"`
	PasswordHash string         `json:"-" gorm:"not null;size:255"`
	Name         string         `json:"name" gorm:"not null;size:100"`
	Phone        *string        `json:"phone" gorm:"size:20"`
	Status       string         `json:"status" gorm:"default:'active';size:20"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// 角色与所属范围
	RoleID         uint  `json:"role_id" gorm:"not null;index"`
	OrganizationID *uint `json:"organization_id" gorm:"index"` // 平台级用户为空
	RestaurantID   *uint `json:"restaurant_id" gorm:"index"`   // 不限定餐厅时为空

	// 关联关系
	Role         *Role         `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Restaurant   *Restaurant   `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// NormalizeEmail 邮箱统一转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword 设置密码 - 数据操作方法
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码 - 数据操作方法
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsActive 用户是否可用
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
