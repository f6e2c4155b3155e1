// Package eventbus 实现事件总线
package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/alumnet/go-alumnet/internal/core/metrics"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/lib/log"
	"github.com/alumnet/go-alumnet/pkg/types"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
type Bus struct {
	mu sync.RWMutex

	// nodes 事件名到处理器列表的映射，首次订阅时创建
	nodes map[types.EventName]*node

	observer interfaces.ErrorObserver
	reporter metrics.Reporter

	// stackLog 限制 panic 堆栈的输出频率，nil 表示每次都输出
	stackLog *rate.Sometimes
}

// node 单个事件名的处理器列表（按注册顺序）
type node struct {
	regs []*registration
}

var _ interfaces.EventBus = (*Bus)(nil)

// NewBus 创建新的事件总线
func NewBus(opts ...interfaces.BusOpt) *Bus {
	settings := &interfaces.BusSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	b := &Bus{
		nodes:    make(map[types.EventName]*node),
		observer: settings.ErrorObserver,
		reporter: metrics.NopReporter{},
	}
	if settings.StackInterval > 0 {
		b.stackLog = &rate.Sometimes{Interval: settings.StackInterval}
	}
	return b
}

// SetReporter 设置指标记录器，nil 表示不记录
func (b *Bus) SetReporter(r metrics.Reporter) {
	b.mu.Lock()
	b.reporter = metrics.OrNop(r)
	b.mu.Unlock()
}

// ============================================================================
// EventBus 接口实现
// ============================================================================

// Subscribe 订阅事件
func (b *Bus) Subscribe(name types.EventName, handler interfaces.RawHandler) func() {
	if !name.Known() {
		logger.Warn("忽略未知事件的订阅", "event", name)
		return func() {}
	}
	if handler == nil {
		logger.Warn("忽略空处理器的订阅", "event", name)
		return func() {}
	}

	key := identityOf(handler)

	b.mu.Lock()
	n, ok := b.nodes[name]
	if !ok {
		n = &node{}
		b.nodes[name] = n
	}

	for _, reg := range n.regs {
		if reg.matches(key) {
			b.mu.Unlock()
			logger.Debug("处理器已注册，忽略重复订阅", "event", name, "subscription", reg.id)
			return b.unsubscribeFunc(reg)
		}
	}

	reg := &registration{
		id:      uuid.NewString(),
		name:    name,
		handler: handler,
		key:     key,
	}
	reg.active.Store(true)
	n.regs = append(n.regs, reg)
	count := len(n.regs)
	reporter := b.reporter
	b.mu.Unlock()

	reporter.SubscribersChanged(name, count)
	logger.Debug("处理器已注册", "event", name, "subscription", reg.id, "subscribers", count)

	return b.unsubscribeFunc(reg)
}

// Unsubscribe 按处理器身份取消订阅
//
// 不可比较的处理器无法按身份匹配，只能通过 Subscribe 返回的函数移除。
func (b *Bus) Unsubscribe(name types.EventName, handler interfaces.RawHandler) {
	if handler == nil {
		return
	}
	key := identityOf(handler)
	if key == nil {
		logger.Debug("处理器不可比较，无法按身份取消订阅", "event", name)
		return
	}

	b.mu.RLock()
	var target *registration
	if n, ok := b.nodes[name]; ok {
		for _, reg := range n.regs {
			if reg.matches(key) {
				target = reg
				break
			}
		}
	}
	b.mu.RUnlock()

	if target != nil {
		b.remove(target)
	}
}

// Emit 同步发射事件
func (b *Bus) Emit(name types.EventName, payload any) {
	if !name.Known() {
		logger.Warn("忽略未知事件的发射", "event", name)
		return
	}

	b.mu.RLock()
	var snapshot []*registration
	if n, ok := b.nodes[name]; ok {
		snapshot = make([]*registration, len(n.regs))
		copy(snapshot, n.regs)
	}
	reporter := b.reporter
	b.mu.RUnlock()

	reporter.EventEmitted(name)

	for _, reg := range snapshot {
		// 分发期间已被移除
		if !reg.active.Load() {
			continue
		}
		b.dispatch(reg, payload, reporter)
	}
}

// Subscribers 返回事件的处理器数量
func (b *Bus) Subscribers(name types.EventName) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n, ok := b.nodes[name]; ok {
		return len(n.regs)
	}
	return 0
}

// Events 返回当前有处理器的事件名（按封闭集合的定义顺序）
func (b *Bus) Events() []types.EventName {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]types.EventName, 0, len(b.nodes))
	for _, name := range types.AllEvents() {
		if _, ok := b.nodes[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// ============================================================================
// 内部方法
// ============================================================================

// unsubscribeFunc 返回移除指定注册的函数（幂等）
func (b *Bus) unsubscribeFunc(reg *registration) func() {
	return func() {
		b.remove(reg)
	}
}

// remove 移除注册
func (b *Bus) remove(reg *registration) {
	if !reg.active.CompareAndSwap(true, false) {
		return
	}

	b.mu.Lock()
	n, ok := b.nodes[reg.name]
	if !ok {
		b.mu.Unlock()
		return
	}

	for i, r := range n.regs {
		if r == reg {
			n.regs = append(n.regs[:i], n.regs[i+1:]...)
			break
		}
	}

	count := len(n.regs)
	if count == 0 {
		delete(b.nodes, reg.name)
	}
	reporter := b.reporter
	b.mu.Unlock()

	reporter.SubscribersChanged(reg.name, count)
	logger.Debug("处理器已移除", "event", reg.name, "subscription", reg.id, "subscribers", count)
}

// dispatch 调用单个处理器并隔离其失败
func (b *Bus) dispatch(reg *registration, payload any, reporter metrics.Reporter) {
	var (
		herr  *interfaces.HandlerError
		stack []byte
	)

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				herr = &interfaces.HandlerError{
					Event:          reg.name,
					SubscriptionID: reg.id,
					Err:            interfaces.ErrHandlerPanic,
					Panic:          rec,
				}
				if b.stackLog == nil {
					stack = debug.Stack()
				} else {
					b.stackLog.Do(func() { stack = debug.Stack() })
				}
			}
		}()

		if err := reg.handler.HandleRaw(payload); err != nil {
			herr = &interfaces.HandlerError{
				Event:          reg.name,
				SubscriptionID: reg.id,
				Err:            err,
			}
		}
	}()

	if herr == nil {
		return
	}

	reporter.HandlerFailed(reg.name)

	args := []any{"event", herr.Event, "subscription", herr.SubscriptionID, "err", herr.Err}
	if herr.Panic != nil {
		args = append(args, "panic", herr.Panic)
	}
	if stack != nil {
		args = append(args, "stack", string(stack))
	}
	logger.Warn("事件处理器失败", args...)

	b.notifyObserver(herr)
}

// notifyObserver 通知失败观察者，观察者自身的 panic 也被隔离
func (b *Bus) notifyObserver(herr *interfaces.HandlerError) {
	if b.observer == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("处理器失败观察者 panic", "event", herr.Event, "panic", rec)
		}
	}()
	b.observer(herr)
}
