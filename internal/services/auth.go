package services

import (
	"time"

	"marlex/internal/models"
	"marlex/pkg/config"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService 认证服务：凭证校验与会话生命周期。
// 采用服务端会话方案：登录创建会话行，随机ID通过HTTP-only
// Cookie下发，每次校验都回读会话行，登出置为无效。
type AuthService struct {
	db          *gorm.DB
	duration    time.Duration // 会话绝对有效期
	idleTimeout time.Duration // 不活跃超时
}

// NewAuthService 创建认证服务
func NewAuthService(db *gorm.DB) *AuthService {
	cfg := config.GetConfig()
	return &AuthService{
		db:          db,
		duration:    cfg.Session.Duration,
		idleTimeout: cfg.Session.IdleTimeout,
	}
}

// SessionDuration 会话有效期
func (s *AuthService) SessionDuration() time.Duration {
	return s.duration
}

// Login 校验凭证并创建会话。
// 用户不存在与密码错误返回同一个错误，避免暴露邮箱是否注册；
// 软删除用户由查询范围自动排除，永远无法通过校验。
func (s *AuthService) Login(email, password, userAgent, ip string) (*models.User, *models.Session, error) {
	email = models.NormalizeEmail(email)

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.Unauthorized("邮箱或密码错误")
		}
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}

	if !user.CheckPassword(password) {
		return nil, nil, apperrors.Unauthorized("邮箱或密码错误")
	}

	// 凭证正确但账号被停用，返回区别于密码错误的失败
	if !user.IsActive() {
		return nil, nil, apperrors.Unauthorized("账号已被禁用")
	}

	session, err := s.createSession(&user, userAgent, ip)
	if err != nil {
		return nil, nil, err
	}

	// 更新最后登录时间，失败不影响登录流程
	now := time.Now()
	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("last_login_at", now).Error; err != nil {
		logger.GetLogger().Warnf("更新最后登录时间失败: %v", err)
	}

	return &user, session, nil
}

// createSession 创建会话行，绑定请求方User-Agent与IP
func (s *AuthService) createSession(user *models.User, userAgent, ip string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		UserAgent:      userAgent,
		IP:             ip,
		ExpiresAt:      now.Add(s.duration),
		LastActivityAt: now,
		Valid:          true,
	}

	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "创建会话失败", err)
	}
	return session, nil
}

// ValidateSession 校验会话并解析用户。
// 每次请求都回读会话行并在读取时重新检查有效标志、绝对过期
// 和不活跃窗口，不依赖清理任务；清理任务并发将会话置为无效时，
// 正在处理的下一次校验立即失败。
func (s *AuthService) ValidateSession(sessionID string) (*models.User, *models.Session, error) {
	if sessionID == "" {
		return nil, nil, apperrors.Unauthorized("请先登录")
	}

	var session models.Session
	err := s.db.Where("id = ? AND valid = ?", sessionID, true).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.Unauthorized("会话不存在或已失效")
		}
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, "查询会话失败", err)
	}

	now := time.Now()
	if !session.Usable(now, s.idleTimeout) {
		return nil, nil, apperrors.Unauthorized("会话已过期")
	}

	// 解析用户，覆盖会话仍有效但用户已被删除的竞争场景
	var user models.User
	if err := s.db.First(&user, session.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.Unauthorized("用户不存在")
		}
		return nil, nil, apperrors.Wrap(apperrors.KindInternal, "查询用户失败", err)
	}

	if !user.IsActive() {
		return nil, nil, apperrors.Unauthorized("账号已被禁用")
	}

	// 刷新活跃时间，失败不影响本次请求
	if err := s.db.Model(&models.Session{}).Where("id = ?", session.ID).
		UpdateColumn("last_activity_at", now).Error; err != nil {
		logger.GetLogger().Warnf("刷新会话活跃时间失败: %v", err)
	}
	session.LastActivityAt = now

	return &user, &session, nil
}

// Refresh 确认会话有效性并刷新活跃时间。
// 对外故意收窄错误面：无论缺失、过期还是用户被删，
// 一律返回同一个403失败，不泄露具体原因。
func (s *AuthService) Refresh(sessionID string) (*models.User, error) {
	user, _, err := s.ValidateSession(sessionID)
	if err != nil {
		return nil, apperrors.Forbidden("无效的刷新凭证")
	}
	return user, nil
}

// Logout 将会话置为无效，幂等操作
func (s *AuthService) Logout(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := s.db.Model(&models.Session{}).Where("id = ?", sessionID).
		UpdateColumn("valid", false).Error
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "注销会话失败", err)
	}
	return nil
}
