package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marlex/internal/models"
	"marlex/internal/services"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/response"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Name    string `json:"name"`
	Status  int    `json:"status"`
	Detail  string `json:"detail"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var body errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerTranslatesAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/denied", func(c *gin.Context) {
		_ = c.Error(apperrors.Forbidden("权限不足"))
		c.Abort()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/denied", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeError(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "权限不足", body.Message)
	assert.Equal(t, "ForbiddenError", body.Name)
	assert.Equal(t, http.StatusForbidden, body.Status)
}

func TestErrorHandlerHidesUntypedErrorDetailInRelease(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Abort()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	// release模式下未标注类别的错误细节不外泄
	assert.Equal(t, "服务器内部错误", body.Message)
	assert.Equal(t, "InternalServerError", body.Name)
	assert.Empty(t, body.Detail)
}

func TestErrorHandlerExposesDetailOutsideRelease(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Abort()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "服务器内部错误", body.Message)
	assert.Equal(t, assert.AnError.Error(), body.Detail)
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("意外崩溃")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "InternalServerError", body.Name)
}

func TestErrorHandlerLeavesSuccessAlone(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/ok", func(c *gin.Context) {
		response.Success(c, gin.H{"value": 1})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	db, _ := newMockDB(t)
	authMW := NewAuthMiddleware(services.NewAuthService(db), services.NewPermissionService(db))

	handlerReached := false
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/protected", authMW.RequireSession(), func(c *gin.Context) {
		handlerReached = true
		response.Success(c, nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	// 无Cookie直接短路，业务处理器不应执行
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerReached)
	body := decodeError(t, w)
	assert.Equal(t, "UnauthorizedError", body.Name)
	assert.Equal(t, "请先登录", body.Message)
}

func TestRequirePermissionDeniesWithoutGrant(t *testing.T) {
	db, mock := newMockDB(t)
	authMW := NewAuthMiddleware(services.NewAuthService(db), services.NewPermissionService(db))

	// 角色没有任何权限条目
	mock.ExpectQuery(`SELECT (.+) FROM "role_menus"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	handlerReached := false
	r := gin.New()
	r.Use(ErrorHandler())
	// 模拟已通过会话校验的用户
	r.Use(func(c *gin.Context) {
		c.Set(ContextKeyUser, &models.User{
			BaseModel: models.BaseModel{ID: 1},
			RoleID:    2,
		})
	})
	r.GET("/orders", authMW.RequirePermission(models.MenuOrders, models.ActionView), func(c *gin.Context) {
		handlerReached = true
		response.Success(c, nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, handlerReached)
	body := decodeError(t, w)
	assert.Equal(t, "ForbiddenError", body.Name)
}

func TestRequirePermissionAllowsGrantedAction(t *testing.T) {
	db, mock := newMockDB(t)
	authMW := NewAuthMiddleware(services.NewAuthService(db), services.NewPermissionService(db))

	// 角色在菜品模块上持有update权限
	mock.ExpectQuery(`SELECT (.+) FROM "role_menus"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role_id", "menu_id", "can_view", "can_create", "can_update", "can_delete"}).
			AddRow(10, 2, 6, false, false, true, false))
	mock.ExpectQuery(`SELECT (.+) FROM "menus"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}).AddRow(6, "products"))
	mock.ExpectQuery(`SELECT (.+) FROM "role_menu_specific_permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	handlerReached := false
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(ContextKeyUser, &models.User{
			BaseModel: models.BaseModel{ID: 1},
			RoleID:    2,
		})
	})
	r.PUT("/products/6", authMW.RequirePermission(models.MenuProducts, models.ActionUpdate), func(c *gin.Context) {
		handlerReached = true
		response.Success(c, nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/products/6", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerReached)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestRequirePermissionWithoutSessionContext(t *testing.T) {
	db, _ := newMockDB(t)
	authMW := NewAuthMiddleware(services.NewAuthService(db), services.NewPermissionService(db))

	r := gin.New()
	r.Use(ErrorHandler())
	// 未挂RequireSession时上下文里没有用户，权限校验按未登录处理
	r.GET("/orders", authMW.RequirePermission(models.MenuOrders, models.ActionView), func(c *gin.Context) {
		response.Success(c, nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
