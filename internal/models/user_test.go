package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndCheckPassword(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("super123"))

	// 哈希后不保留明文
	assert.NotEqual(t, "super123", u.PasswordHash)
	assert.True(t, u.CheckPassword("super123"))
	assert.False(t, u.CheckPassword("super124"))
	assert.False(t, u.CheckPassword(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "marlex@test.com", NormalizeEmail("  Marlex@Test.COM "))
	assert.Equal(t, "a@b.com", NormalizeEmail("a@b.com"))
}

func TestUserIsActive(t *testing.T) {
	active := User{Status: UserStatusActive}
	inactive := User{Status: UserStatusInactive}

	assert.True(t, active.IsActive())
	assert.False(t, inactive.IsActive())
}
