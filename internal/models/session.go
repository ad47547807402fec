package models

import "time"

// Session 服务端会话记录。登录时创建，随机不可猜测的ID通过
// HTTP-only Cookie下发，每次请求都回读本表校验，服务端不信任
// 任何客户端载荷。
type Session struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	UserAgent      string    `gorm:"size:255" json:"user_agent"`
	IP             string    `gorm:"size:45" json:"ip"`
	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
	LastActivityAt time.Time `gorm:"not null" json:"last_activity_at"`
	Valid          bool      `gorm:"default:true;index" json:"valid"`
	CreatedAt      time.Time `json:"created_at"`

	// 关联关系
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 表名
func (s *Session) TableName() string {
	return "sessions"
}

// IsExpired 是否已过绝对有效期
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsIdle 是否超过不活跃窗口
func (s *Session) IsIdle(now time.Time, idleTimeout time.Duration) bool {
	return now.Sub(s.LastActivityAt) > idleTimeout
}

// Usable 会话当前是否可用，校验时与清理任务各自独立判断
func (s *Session) Usable(now time.Time, idleTimeout time.Duration) bool {
	return s.Valid && !s.IsExpired(now) && !s.IsIdle(now, idleTimeout)
}
