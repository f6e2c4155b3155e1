package guard

import (
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/alumnet/go-alumnet/internal/core/metrics"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
)

// ============================================================================
// Factory 实现
// ============================================================================

// Factory 按运行时配置创建守卫并登记存活的守卫
type Factory struct {
	cooldown time.Duration
	clock    clock.Clock
	reporter metrics.Reporter

	mu   sync.Mutex
	live map[string]io.Closer
}

var _ interfaces.GuardRegistry = (*Factory)(nil)

// NewFactory 创建 Factory
//
// cooldown 非正时使用默认值，clk 为 nil 时使用真实时钟。
func NewFactory(cooldown time.Duration, clk clock.Clock, reporter metrics.Reporter) *Factory {
	if cooldown <= 0 {
		cooldown = interfaces.DefaultGuardCooldown
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Factory{
		cooldown: cooldown,
		clock:    clk,
		reporter: metrics.OrNop(reporter),
		live:     make(map[string]io.Closer),
	}
}

// options 返回 Factory 的基础选项，extra 可覆盖
func (f *Factory) options(extra []Option) []Option {
	opts := []Option{
		WithCooldown(f.cooldown),
		WithClock(f.clock),
		WithReporter(f.reporter),
		withRegistry(f),
	}
	return append(opts, extra...)
}

// Make 用 Factory 创建守卫
func Make[E any](f *Factory, action func(E), opts ...Option) *Guard[E] {
	return New(action, f.options(opts)...)
}

// MakeAction 用 Factory 创建无参动作守卫
func MakeAction(f *Factory, action func(), opts ...Option) *Action {
	return &Action{Guard: Make(f, wrapNullary(action), opts...)}
}

// Cooldown 返回默认冷却时间
func (f *Factory) Cooldown() time.Duration {
	return f.cooldown
}

// Active 返回存活的守卫数量
func (f *Factory) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

// CloseAll 销毁所有存活的守卫
func (f *Factory) CloseAll() error {
	f.mu.Lock()
	guards := make([]io.Closer, 0, len(f.live))
	for _, g := range f.live {
		guards = append(guards, g)
	}
	f.mu.Unlock()

	var err error
	for _, g := range guards {
		multierr.AppendInto(&err, g.Close())
	}
	if len(guards) > 0 {
		logger.Debug("已销毁所有守卫", "count", len(guards))
	}
	return err
}

func (f *Factory) track(id string, g io.Closer) {
	f.mu.Lock()
	f.live[id] = g
	f.mu.Unlock()
}

func (f *Factory) untrack(id string) {
	f.mu.Lock()
	delete(f.live, id)
	f.mu.Unlock()
}
