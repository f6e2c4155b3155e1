package alumnet

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/alumnet/go-alumnet/config"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// config 基础配置（WithConfig / WithConfigFile，后设置的生效）
	config *config.Config

	// 覆盖项
	cooldown       *time.Duration
	metricsEnabled *bool

	// 注入的依赖
	observer interfaces.ErrorObserver
	registry *prometheus.Registry
	clock    clock.Clock

	// fxDebug 输出 Fx 依赖注入事件
	fxDebug bool

	// 用户自定义 Fx 选项
	fxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// toConfig 合成最终配置并验证
func (o *options) toConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if o.config != nil {
		copied := *o.config
		cfg = &copied
	}

	if o.cooldown != nil {
		cfg.Guard.Cooldown = config.Duration(*o.cooldown)
	}
	if o.metricsEnabled != nil {
		cfg.Metrics.Enabled = *o.metricsEnabled
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置来源
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用给定配置
//
// 配置会被复制，之后对 cfg 的修改不影响运行时。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidOption)
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              覆盖项
// ════════════════════════════════════════════════════════════════════════════

// WithGuardCooldown 设置守卫的默认冷却时间
func WithGuardCooldown(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("%w: guard cooldown must be positive, got %s", ErrInvalidOption, d)
		}
		o.cooldown = &d
		return nil
	}
}

// WithMetrics 启用或禁用 Prometheus 指标
func WithMetrics(enabled bool) Option {
	return func(o *options) error {
		o.metricsEnabled = &enabled
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              依赖注入
// ════════════════════════════════════════════════════════════════════════════

// WithErrorObserver 设置处理器失败观察者
//
// 观察者在发射方的调用栈上同步调用。
func WithErrorObserver(observer interfaces.ErrorObserver) Option {
	return func(o *options) error {
		o.observer = observer
		return nil
	}
}

// WithRegistry 使用给定的 Prometheus Registry 注册指标
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) error {
		if reg == nil {
			return fmt.Errorf("%w: nil registry", ErrInvalidOption)
		}
		o.registry = reg
		return nil
	}
}

// WithClock 设置守卫使用的时钟（测试中注入 clock.Mock）
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidOption)
		}
		o.clock = clk
		return nil
	}
}

// WithFxDebug 把 Fx 依赖注入事件输出到标准错误
func WithFxDebug() Option {
	return func(o *options) error {
		o.fxDebug = true
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
//
// 可用于向运行时注入额外组件，或通过 fx.Populate 取出内部组件。
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
