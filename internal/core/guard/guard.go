// Package guard 实现动作守卫
package guard

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/alumnet/go-alumnet/internal/core/metrics"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/lib/log"
)

var logger = log.Logger("core/guard")

// ============================================================================
// Guard 实现
// ============================================================================

// Guard 动作守卫
type Guard[E any] struct {
	id       string
	name     string
	action   func(E)
	cooldown time.Duration
	clock    clock.Clock
	reporter metrics.Reporter
	onClose  func()

	mu          sync.Mutex
	disabled    bool
	suppressing bool
	closed      bool
	timer       *clock.Timer

	// gen 定时器代次，过期定时器触发时不修改状态
	gen uint64
}

var _ interfaces.Guard[string] = (*Guard[string])(nil)

// New 创建守卫
func New[E any](action func(E), opts ...Option) *Guard[E] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}

	g := &Guard[E]{
		id:       uuid.NewString(),
		name:     s.name,
		action:   action,
		cooldown: s.cooldown,
		clock:    s.clock,
		reporter: s.reporter,
		disabled: s.disabled,
	}
	if g.name == "" {
		g.name = "guard-" + g.id[:8]
	}
	if s.registry != nil {
		s.registry.track(g.id, g)
		g.onClose = func() { s.registry.untrack(g.id) }
	}
	return g
}

// Invoke 尝试执行动作
//
// 返回 true 表示调用被接受且动作已执行；被丢弃时返回 false，不产生任何错误。
func (g *Guard[E]) Invoke(event E) bool {
	g.mu.Lock()
	if result, dropped := g.dropReason(); dropped {
		g.mu.Unlock()
		g.reporter.GuardInvoked(result)
		logger.Debug("守卫丢弃调用", "guard", g.name, "reason", result)
		return false
	}
	g.suppressing = true
	g.mu.Unlock()

	g.reporter.GuardInvoked(metrics.GuardAccepted)
	g.run(event)
	g.scheduleRelease()
	return true
}

// dropReason 判断当前调用是否应被丢弃（调用方持有锁）
func (g *Guard[E]) dropReason() (metrics.GuardResult, bool) {
	switch {
	case g.closed:
		return metrics.GuardClosed, true
	case g.disabled:
		return metrics.GuardDisabled, true
	case g.suppressing:
		return metrics.GuardSuppressed, true
	default:
		return metrics.GuardAccepted, false
	}
}

// run 执行动作，动作 panic 时记录日志，冷却照常开始
func (g *Guard[E]) run(event E) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("守卫动作 panic", "guard", g.name, "panic", rec)
		}
	}()
	if g.action != nil {
		g.action(event)
	}
}

// scheduleRelease 调度解除抑制的定时器
func (g *Guard[E]) scheduleRelease() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.gen++
	gen := g.gen
	g.timer = g.clock.AfterFunc(g.cooldown, func() {
		g.release(gen)
	})
}

// release 冷却结束，解除抑制
func (g *Guard[E]) release(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || gen != g.gen {
		return
	}
	g.suppressing = false
	g.timer = nil
}

// Func 返回与动作调用约定相同的函数
func (g *Guard[E]) Func() func(E) {
	return func(event E) {
		g.Invoke(event)
	}
}

// SetDisabled 设置禁用状态
func (g *Guard[E]) SetDisabled(disabled bool) {
	g.mu.Lock()
	g.disabled = disabled
	g.mu.Unlock()
}

// Disabled 返回是否禁用
func (g *Guard[E]) Disabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disabled
}

// Suppressing 返回是否处于冷却抑制中
func (g *Guard[E]) Suppressing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suppressing
}

// Name 返回守卫名称
func (g *Guard[E]) Name() string {
	return g.name
}

// Cooldown 返回冷却时间
func (g *Guard[E]) Cooldown() time.Duration {
	return g.cooldown
}

// Close 销毁守卫
//
// 取消挂起的冷却定时器，之后的调用全部丢弃。可重复调用。
func (g *Guard[E]) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	onClose := g.onClose
	g.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	logger.Debug("守卫已销毁", "guard", g.name)
	return nil
}

// ============================================================================
// Action 无参动作
// ============================================================================

// Action 包装无参动作的守卫
type Action struct {
	*Guard[struct{}]
}

// NewAction 创建无参动作守卫
func NewAction(action func(), opts ...Option) *Action {
	return &Action{Guard: New(wrapNullary(action), opts...)}
}

// Trigger 尝试执行动作，返回是否被接受
func (a *Action) Trigger() bool {
	return a.Invoke(struct{}{})
}

// TriggerFunc 返回无参的受保护函数
func (a *Action) TriggerFunc() func() {
	return func() {
		a.Trigger()
	}
}

func wrapNullary(action func()) func(struct{}) {
	if action == nil {
		return nil
	}
	return func(struct{}) { action() }
}

var _ interfaces.ActionGuard = (*Action)(nil)
