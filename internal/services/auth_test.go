package services

import (
	"testing"
	"time"

	"marlex/internal/models"
	apperrors "marlex/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockDB 基于sqlmock构造gorm连接
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

// newTestAuthService 构造测试用认证服务
func newTestAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		db:          db,
		duration:    7 * 24 * time.Hour,
		idleTimeout: time.Hour,
	}
}

// hashPassword 生成测试用密码哈希
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	var u models.User
	require.NoError(t, u.SetPassword(password))
	return u.PasswordHash
}

func userRows(t *testing.T, id uint, email, password, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "status", "role_id"}).
		AddRow(id, email, hashPassword(t, password), "测试用户", status, 1)
}

func TestLoginUnknownEmail(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.Login("ghost@test.com", "super123", "ua", "127.0.0.1")
	require.Error(t, err)
	// 用户不存在与密码错误必须返回同一个文案
	assert.Equal(t, "邮箱或密码错误", apperrors.From(err).Message)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.From(err).Kind)
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRows(t, 1, "marlex@test.com", "super123", models.UserStatusActive))

	_, _, err := svc.Login("marlex@test.com", "wrong-password", "ua", "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "邮箱或密码错误", apperrors.From(err).Message)
}

func TestLoginInactiveUser(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRows(t, 1, "marlex@test.com", "super123", models.UserStatusInactive))

	// 密码正确但账号停用，文案区别于凭证错误
	_, _, err := svc.Login("marlex@test.com", "super123", "ua", "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "账号已被禁用", apperrors.From(err).Message)
}

func TestLoginNormalizesEmail(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	// 查询参数必须是小写去空格后的邮箱
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("marlex@test.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, _ = svc.Login("  Marlex@Test.COM ", "super123", "ua", "127.0.0.1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSessionEmptyID(t *testing.T) {
	svc := newTestAuthService(nil)

	_, _, err := svc.ValidateSession("")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.From(err).Kind)
	assert.Equal(t, "请先登录", apperrors.From(err).Message)
}

func TestValidateSessionNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "sessions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.ValidateSession("missing-session")
	require.Error(t, err)
	assert.Equal(t, "会话不存在或已失效", apperrors.From(err).Message)
}

func sessionRows(id string, userID uint, expiresAt, lastActivityAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "expires_at", "last_activity_at", "valid"}).
		AddRow(id, userID, expiresAt, lastActivityAt, true)
}

func TestValidateSessionExpired(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "sessions"`).
		WillReturnRows(sessionRows("s1", 1, now.Add(-time.Minute), now))

	_, _, err := svc.ValidateSession("s1")
	require.Error(t, err)
	assert.Equal(t, "会话已过期", apperrors.From(err).Message)
}

func TestValidateSessionIdleTimeout(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	now := time.Now()
	// 绝对有效期未到，但超过不活跃窗口
	mock.ExpectQuery(`SELECT (.+) FROM "sessions"`).
		WillReturnRows(sessionRows("s1", 1, now.Add(24*time.Hour), now.Add(-2*time.Hour)))

	_, _, err := svc.ValidateSession("s1")
	require.Error(t, err)
	assert.Equal(t, "会话已过期", apperrors.From(err).Message)
}

func TestValidateSessionSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "sessions"`).
		WillReturnRows(sessionRows("s1", 1, now.Add(24*time.Hour), now))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRows(t, 1, "marlex@test.com", "super123", models.UserStatusActive))
	mock.ExpectExec(`UPDATE "sessions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, session, err := svc.ValidateSession("s1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "s1", session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSessionUserDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "sessions"`).
		WillReturnRows(sessionRows("s1", 1, now.Add(24*time.Hour), now))
	// 软删除用户被查询范围排除，返回空结果
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.ValidateSession("s1")
	require.Error(t, err)
	assert.Equal(t, "用户不存在", apperrors.From(err).Message)
}

// 刷新接口故意收窄错误面：所有失败都归并为同一个403
func TestRefreshCollapsesAllFailures(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	// 会话不存在
	mock.ExpectQuery(`SELECT (.+) FROM "sessions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err := svc.Refresh("missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.From(err).Kind)
	assert.Equal(t, "无效的刷新凭证", apperrors.From(err).Message)

	// 会话ID缺失，同样的文案
	_, err = svc.Refresh("")
	require.Error(t, err)
	assert.Equal(t, "无效的刷新凭证", apperrors.From(err).Message)
}

func TestLogoutIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestAuthService(db)

	// 空会话ID直接成功，不触发数据库操作
	require.NoError(t, svc.Logout(""))

	// 不存在的会话同样返回成功
	mock.ExpectExec(`UPDATE "sessions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, svc.Logout("already-gone"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
