package idle

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForState 轮询等待监控器进入目标状态
func waitForState(t *testing.T, m *Monitor, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.CurrentState() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, m.CurrentState())
}

func TestIdleTimeoutTriggersPrompt(t *testing.T) {
	var prompted int32
	m := NewMonitor(30*time.Millisecond, time.Hour, Callbacks{
		OnPrompt: func() { atomic.AddInt32(&prompted, 1) },
	})
	m.Start()
	defer m.Stop()

	waitForState(t, m, StatePrompting)
	assert.Equal(t, int32(1), atomic.LoadInt32(&prompted))
}

func TestTouchResetsIdleTimer(t *testing.T) {
	var prompted int32
	m := NewMonitor(60*time.Millisecond, time.Hour, Callbacks{
		OnPrompt: func() { atomic.AddInt32(&prompted, 1) },
	})
	m.Start()
	defer m.Stop()

	// 持续交互，空闲计时不应走完
	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		m.Touch()
	}

	assert.Equal(t, StateActive, m.CurrentState())
	assert.Equal(t, int32(0), atomic.LoadInt32(&prompted))
}

func TestPromptTimeoutForcesLogout(t *testing.T) {
	var loggedOut int32
	m := NewMonitor(20*time.Millisecond, 30*time.Millisecond, Callbacks{
		OnTimeout: func() { atomic.AddInt32(&loggedOut, 1) },
	})
	m.Start()

	waitForState(t, m, StatePrompting)
	waitForState(t, m, StateStopped)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loggedOut))
}

func TestConfirmReturnsToActive(t *testing.T) {
	var loggedOut int32
	m := NewMonitor(20*time.Millisecond, time.Hour, Callbacks{
		OnTimeout: func() { atomic.AddInt32(&loggedOut, 1) },
	})
	m.Start()
	defer m.Stop()

	waitForState(t, m, StatePrompting)
	m.Confirm()

	assert.Equal(t, StateActive, m.CurrentState())
	assert.Equal(t, int32(0), atomic.LoadInt32(&loggedOut))
}

func TestTouchIgnoredWhilePrompting(t *testing.T) {
	m := NewMonitor(20*time.Millisecond, time.Hour, Callbacks{})
	m.Start()
	defer m.Stop()

	waitForState(t, m, StatePrompting)

	// 提示状态下的交互不算确认
	m.Touch()
	assert.Equal(t, StatePrompting, m.CurrentState())
}

func TestDeclineLogsOutImmediately(t *testing.T) {
	var loggedOut int32
	m := NewMonitor(20*time.Millisecond, time.Hour, Callbacks{
		OnTimeout: func() { atomic.AddInt32(&loggedOut, 1) },
	})
	m.Start()

	waitForState(t, m, StatePrompting)
	m.Decline()

	assert.Equal(t, StateStopped, m.CurrentState())
	assert.Equal(t, int32(1), atomic.LoadInt32(&loggedOut))
}

func TestStopCancelsTimers(t *testing.T) {
	var prompted int32
	m := NewMonitor(30*time.Millisecond, time.Hour, Callbacks{
		OnPrompt: func() { atomic.AddInt32(&prompted, 1) },
	})
	m.Start()
	m.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateStopped, m.CurrentState())
	assert.Equal(t, int32(0), atomic.LoadInt32(&prompted))
}

func TestStaleIdleCallbackIgnoredAfterTouch(t *testing.T) {
	var prompted int32
	m := NewMonitor(time.Hour, time.Hour, Callbacks{
		OnPrompt: func() { atomic.AddInt32(&prompted, 1) },
	})
	m.Start()
	defer m.Stop()

	m.mu.Lock()
	stale := m.gen
	m.mu.Unlock()

	// Touch重置之前已触发、但尚未拿到锁的空闲回调不得再生效
	m.Touch()
	m.onIdleTimeout(stale)

	assert.Equal(t, StateActive, m.CurrentState())
	assert.Equal(t, int32(0), atomic.LoadInt32(&prompted))
}

func TestStalePromptCallbackIgnoredAfterConfirm(t *testing.T) {
	var loggedOut int32
	m := NewMonitor(20*time.Millisecond, time.Hour, Callbacks{
		OnTimeout: func() { atomic.AddInt32(&loggedOut, 1) },
	})
	m.Start()
	defer m.Stop()

	waitForState(t, m, StatePrompting)

	m.mu.Lock()
	stale := m.gen
	m.mu.Unlock()

	// Confirm之后过期的倒计时回调不得触发登出
	m.Confirm()
	m.onPromptTimeout(stale)

	assert.Equal(t, StateActive, m.CurrentState())
	assert.Equal(t, int32(0), atomic.LoadInt32(&loggedOut))
}

func TestStartIsIdempotent(t *testing.T) {
	m := NewMonitor(time.Hour, time.Hour, Callbacks{})
	m.Start()
	defer m.Stop()

	m.Start()
	assert.Equal(t, StateActive, m.CurrentState())
}
