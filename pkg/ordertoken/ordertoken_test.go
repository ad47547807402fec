package ordertoken

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Generate(42, 7, "ORD202608300001")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.OrderID)
	assert.Equal(t, uint(7), claims.RestaurantID)
	assert.Equal(t, "ORD202608300001", claims.OrderNumber)
	assert.Equal(t, "Marlex", claims.Issuer)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Generate(1, 1, "ORD1")
	require.NoError(t, err)

	// 篡改载荷部分
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = m.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	m1 := NewManager("secret-one", time.Hour)
	m2 := NewManager("secret-two", time.Hour)

	token, err := m1.Generate(1, 1, "ORD1")
	require.NoError(t, err)

	_, err = m2.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Generate(1, 1, "ORD1")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Verify("not-a-token")
	assert.Error(t, err)
}
