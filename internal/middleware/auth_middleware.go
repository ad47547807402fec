package middleware

import (
	"marlex/internal/models"
	"marlex/internal/services"
	"marlex/pkg/config"
	apperrors "marlex/pkg/errors"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextKeyUser      = "user"
	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
)

// AuthMiddleware 认证与鉴权中间件
type AuthMiddleware struct {
	authService *services.AuthService
	permService *services.PermissionService
	cookieName  string
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authService *services.AuthService, permService *services.PermissionService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		permService: permService,
		cookieName:  config.GetConfig().Session.CookieName,
	}
}

// RequireSession 会话校验。从Cookie读取会话ID并校验，
// 通过后把用户与会话写入请求上下文，失败直接短路。
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(m.cookieName)
		if err != nil {
			sessionID = ""
		}

		user, session, err := m.authService.ValidateSession(sessionID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeySessionID, session.ID)
		c.Next()
	}
}

// RequirePermission 模块权限校验，必须排在RequireSession之后
func (m *AuthMiddleware) RequirePermission(menuCode, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if err := m.permService.Check(user, menuCode, action); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 从请求上下文取出当前用户，未认证返回nil
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentSessionID 从请求上下文取出当前会话ID
func CurrentSessionID(c *gin.Context) string {
	value, exists := c.Get(ContextKeySessionID)
	if !exists {
		return ""
	}
	id, _ := value.(string)
	return id
}

// MustCurrentUser 取出当前用户，不存在时返回未登录错误
func MustCurrentUser(c *gin.Context) (*models.User, error) {
	user := CurrentUser(c)
	if user == nil {
		return nil, apperrors.Unauthorized("请先登录")
	}
	return user, nil
}
