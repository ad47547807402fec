package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionUsable(t *testing.T) {
	now := time.Now()
	idleTimeout := time.Hour

	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{
			name: "有效会话",
			session: Session{
				Valid:          true,
				ExpiresAt:      now.Add(24 * time.Hour),
				LastActivityAt: now.Add(-time.Minute),
			},
			want: true,
		},
		{
			name: "已注销",
			session: Session{
				Valid:          false,
				ExpiresAt:      now.Add(24 * time.Hour),
				LastActivityAt: now,
			},
			want: false,
		},
		{
			name: "过绝对有效期",
			session: Session{
				Valid:          true,
				ExpiresAt:      now.Add(-time.Minute),
				LastActivityAt: now,
			},
			want: false,
		},
		{
			name: "超过不活跃窗口",
			session: Session{
				Valid:          true,
				ExpiresAt:      now.Add(24 * time.Hour),
				LastActivityAt: now.Add(-2 * time.Hour),
			},
			want: false,
		},
		{
			name: "刚好在不活跃窗口内",
			session: Session{
				Valid:          true,
				ExpiresAt:      now.Add(24 * time.Hour),
				LastActivityAt: now.Add(-time.Hour + time.Second),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.Usable(now, idleTimeout))
		})
	}
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(2*time.Minute)))
}

func TestSessionIsIdle(t *testing.T) {
	now := time.Now()
	s := Session{LastActivityAt: now.Add(-30 * time.Minute)}

	assert.False(t, s.IsIdle(now, time.Hour))
	assert.True(t, s.IsIdle(now, 10*time.Minute))
}
