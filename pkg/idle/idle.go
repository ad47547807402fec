package idle

import (
	"sync"
	"time"
)

// 不活跃监控器：客户端长时间无操作时先弹出确认提示，
// 提示倒计时内未确认则强制登出。与具体UI无关，
// 调用方通过回调接入自己的提示框和登出逻辑。

// State 监控器状态
type State int

const (
	// StateActive 正常活跃，空闲计时中
	StateActive State = iota
	// StatePrompting 已触发提示，等待用户确认
	StatePrompting
	// StateStopped 已停止
	StateStopped
)

// 默认超时配置
const (
	// DefaultIdleTimeout 不活跃超时，约定值为10分钟
	DefaultIdleTimeout = 10 * time.Minute
	// DefaultPromptTimeout 提示确认倒计时
	DefaultPromptTimeout = 20 * time.Second
)

// Callbacks 状态转换回调
type Callbacks struct {
	OnPrompt  func() // 空闲超时，进入提示状态
	OnTimeout func() // 提示倒计时结束，应执行强制登出
}

// Monitor 不活跃监控器
type Monitor struct {
	mu            sync.Mutex
	state         State
	gen           uint64 // 计时代数，重置后过期回调据此作废
	idleTimeout   time.Duration
	promptTimeout time.Duration
	callbacks     Callbacks
	timer         *time.Timer
}

// NewMonitor 创建监控器，超时传0使用默认值
func NewMonitor(idleTimeout, promptTimeout time.Duration, callbacks Callbacks) *Monitor {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if promptTimeout <= 0 {
		promptTimeout = DefaultPromptTimeout
	}

	return &Monitor{
		state:         StateStopped,
		idleTimeout:   idleTimeout,
		promptTimeout: promptTimeout,
		callbacks:     callbacks,
	}
}

// Start 启动监控，未登录页面不应启动
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateStopped {
		return
	}
	m.state = StateActive
	m.resetTimerLocked(m.idleTimeout, m.onIdleTimeout)
}

// Touch 用户交互事件（鼠标移动、按键、触摸），重置空闲计时。
// 提示状态下的交互不算确认，必须显式调用Confirm。
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return
	}
	m.resetTimerLocked(m.idleTimeout, m.onIdleTimeout)
}

// Confirm 用户确认继续，提示状态下回到活跃并重置空闲计时
func (m *Monitor) Confirm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePrompting {
		return
	}
	m.state = StateActive
	m.resetTimerLocked(m.idleTimeout, m.onIdleTimeout)
}

// Decline 用户显式拒绝继续，立即触发登出
func (m *Monitor) Decline() {
	m.mu.Lock()
	if m.state != StatePrompting {
		m.mu.Unlock()
		return
	}
	m.stopLocked()
	cb := m.callbacks.OnTimeout
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Stop 停止监控，取消所有计时
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

// CurrentState 当前状态
func (m *Monitor) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// onIdleTimeout 空闲超时，进入提示状态并启动倒计时。
// 计时器触发后才拿到锁的回调可能已被Touch重置作废，代数不一致时不处理。
func (m *Monitor) onIdleTimeout(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != StateActive {
		m.mu.Unlock()
		return
	}
	m.state = StatePrompting
	m.resetTimerLocked(m.promptTimeout, m.onPromptTimeout)
	cb := m.callbacks.OnPrompt
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// onPromptTimeout 提示倒计时结束仍无响应，强制登出
func (m *Monitor) onPromptTimeout(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != StatePrompting {
		m.mu.Unlock()
		return
	}
	m.stopLocked()
	cb := m.callbacks.OnTimeout
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// resetTimerLocked 重置计时器并推进代数，调用方必须持有锁。
// Stop不保证拦住已触发的回调，由回调里的代数检查兜底。
func (m *Monitor) resetTimerLocked(d time.Duration, fn func(uint64)) {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.gen++
	gen := m.gen
	m.timer = time.AfterFunc(d, func() { fn(gen) })
}

// stopLocked 停止计时器并置为停止状态，调用方必须持有锁
func (m *Monitor) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
	m.state = StateStopped
}
