package services

import (
	"testing"

	apperrors "marlex/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 整体替换中途失败必须回滚，不能留下删了旧权限却只建了一半新权限的状态
func TestReplacePermissionsRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &RoleService{db: db}

	// 角色存在且非系统角色
	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_system"}).
			AddRow(3, "店长", false))

	mock.ExpectBegin()

	// 清空旧条目：没有细粒度授权，直接删权限条目
	mock.ExpectQuery(`SELECT "id" FROM "role_menus"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`DELETE FROM "role_menus"`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	// 第一个授权项正常写入
	mock.ExpectQuery(`SELECT (.+) FROM "menus"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}).AddRow(1, "products"))
	mock.ExpectQuery(`INSERT INTO "role_menus"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	// 第二个授权项指向不存在的模块，整个事务必须回滚
	mock.ExpectQuery(`SELECT (.+) FROM "menus"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.ReplacePermissions(3, []MenuGrant{
		{MenuID: 1, CanView: true, CanUpdate: true},
		{MenuID: 99, CanView: true},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.From(err).Kind)
	assert.Equal(t, "功能模块不存在", apperrors.From(err).Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidRoleName(t *testing.T) {
	assert.False(t, validRoleName(""))
	assert.False(t, validRoleName("a"))
	assert.True(t, validRoleName("店长"))
	assert.True(t, validRoleName("Shift Manager"))

	long := make([]rune, 51)
	for i := range long {
		long[i] = '长'
	}
	assert.False(t, validRoleName(string(long)))
	assert.True(t, validRoleName(string(long[:50])))
}
