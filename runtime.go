package alumnet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/alumnet/go-alumnet/config"
	"github.com/alumnet/go-alumnet/internal/core/eventbus"
	"github.com/alumnet/go-alumnet/internal/core/guard"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/lib/log"
)

var logger = log.Logger("alumnet")

// closeTimeout Close 停止 Fx 应用的超时
const closeTimeout = 10 * time.Second

// Runtime 通知核心运行时
//
// 持有一个事件总线与一个守卫工厂，由 Fx 组装。
type Runtime struct {
	// ────────────────────────────────────────────────────────────────────────
	// 配置
	// ────────────────────────────────────────────────────────────────────────

	config *config.Config
	app    *fx.App

	// ────────────────────────────────────────────────────────────────────────
	// 核心组件（由 Fx 注入）
	// ────────────────────────────────────────────────────────────────────────

	bus      *eventbus.Bus
	guards   *guard.Factory
	gatherer prometheus.Gatherer

	// ────────────────────────────────────────────────────────────────────────
	// 生命周期状态
	// ────────────────────────────────────────────────────────────────────────

	mu      sync.Mutex
	started bool
	closed  bool
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建运行时
//
// 返回后总线与守卫即可使用，Start 只驱动 Fx 生命周期钩子。
//
// 示例：
//
//	rt, err := alumnet.New(
//	    alumnet.WithGuardCooldown(300*time.Millisecond),
//	    alumnet.WithErrorObserver(func(e *interfaces.HandlerError) { report(e) }),
//	)
func New(opts ...Option) (*Runtime, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg, err := o.toConfig()
	if err != nil {
		return nil, err
	}

	// 日志配置必须在组件创建前应用
	log.Configure(cfg.Log.Level, cfg.Log.Format)

	rt := &Runtime{config: cfg}
	rt.app, err = buildFxApp(o, cfg, rt)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return rt, nil
}

// Start 快捷启动函数
//
// 等价于 New() + Start()。
func Start(ctx context.Context, opts ...Option) (*Runtime, error) {
	rt, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := rt.Start(ctx); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("start runtime: %w", err)
	}
	return rt, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动运行时
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRuntimeClosed
	}
	if r.started {
		return ErrAlreadyStarted
	}

	if err := r.app.Start(ctx); err != nil {
		return fmt.Errorf("start fx app: %w", err)
	}
	r.started = true
	logger.Info("运行时已启动", "version", Version, "cooldown", r.guards.Cooldown())
	return nil
}

// Stop 停止运行时
//
// 销毁所有通过运行时创建的守卫。之后可以再次 Start。
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRuntimeClosed
	}
	if !r.started {
		return ErrNotStarted
	}

	r.started = false
	if err := r.app.Stop(ctx); err != nil {
		logger.Error("停止运行时失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}
	logger.Info("运行时已停止")
	return nil
}

// Close 关闭运行时并释放资源
//
// 与 Stop 的区别：Close 之后不可再启动。可重复调用。
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.started {
		r.started = false
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if stopErr := r.app.Stop(ctx); stopErr != nil {
			err = fmt.Errorf("stop fx app: %w", stopErr)
		}
	}
	// 未启动或停止失败时 OnStop 没有执行，直接销毁守卫
	if closeErr := r.guards.CloseAll(); closeErr != nil && err == nil {
		err = closeErr
	}

	logger.Info("运行时已关闭")
	return err
}

// ════════════════════════════════════════════════════════════════════════════
//                              组件访问
// ════════════════════════════════════════════════════════════════════════════

// Bus 返回事件总线
func (r *Runtime) Bus() interfaces.EventBus {
	return r.bus
}

// Guards 返回守卫登记表
func (r *Runtime) Guards() interfaces.GuardRegistry {
	return r.guards
}

// Gatherer 返回指标收集器
//
// 指标禁用时返回的收集器不含 alumnet 指标。
func (r *Runtime) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// Config 返回生效配置的副本
func (r *Runtime) Config() config.Config {
	return *r.config
}

// IsRunning 返回是否已启动
func (r *Runtime) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}
