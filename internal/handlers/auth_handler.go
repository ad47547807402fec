package handlers

import (
	"net/http"

	"marlex/internal/middleware"
	"marlex/internal/models"
	"marlex/internal/services"
	"marlex/pkg/config"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService *services.AuthService
	permService *services.PermissionService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *services.AuthService, permService *services.PermissionService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		permService: permService,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login 登录
// @route POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			_ = c.Error(apperrors.BadRequest("邮箱或密码格式不正确"))
		} else {
			_ = c.Error(apperrors.BadRequest("请求参数格式错误"))
		}
		c.Abort()
		return
	}

	_, session, err := h.authService.Login(req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	h.setSessionCookie(c, session.ID, int(h.authService.SessionDuration().Seconds()))
	response.SuccessWithMessage(c, "登录成功", nil)
}

// Logout 登出，幂等：无论会话是否存在都清除Cookie并返回成功
// @route POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	cookieName := config.GetConfig().Session.CookieName
	sessionID, err := c.Cookie(cookieName)
	if err == nil && sessionID != "" {
		if err := h.authService.Logout(sessionID); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	response.SuccessWithMessage(c, "已退出登录", nil)
}

// Refresh 会话续期
// @route POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookieName := config.GetConfig().Session.CookieName
	sessionID, err := c.Cookie(cookieName)
	if err != nil {
		sessionID = ""
	}

	if _, err := h.authService.Refresh(sessionID); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.SuccessWithMessage(c, "会话已续期", nil)
}

// MeResponse 当前用户信息
type MeResponse struct {
	User        *models.User           `json:"user"`
	Permissions services.PermissionSet `json:"permissions"`
}

// Me 获取当前登录用户及其权限集
// @route GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := middleware.MustCurrentUser(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	permissions, err := h.permService.LoadSet(user.RoleID)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.Success(c, MeResponse{
		User:        user,
		Permissions: permissions,
	})
}

// setSessionCookie 下发会话Cookie。HTTP-only防脚本读取，
// release模式下强制Secure
func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	cfg := config.GetConfig()
	secure := cfg.Server.Mode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Session.CookieName, value, maxAge, "/", "", secure, true)
}
