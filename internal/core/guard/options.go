package guard

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/alumnet/go-alumnet/internal/core/metrics"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
)

// Option 守卫选项
type Option func(*settings)

type settings struct {
	cooldown time.Duration
	disabled bool
	clock    clock.Clock
	name     string
	reporter metrics.Reporter
	registry *Factory
}

func defaultSettings() *settings {
	return &settings{
		cooldown: interfaces.DefaultGuardCooldown,
		clock:    clock.New(),
		reporter: metrics.NopReporter{},
	}
}

// WithCooldown 设置冷却时间，非正值使用默认的 500ms
func WithCooldown(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithDisabled 设置初始禁用状态
func WithDisabled(disabled bool) Option {
	return func(s *settings) {
		s.disabled = disabled
	}
}

// WithClock 设置时钟（测试中注入 clock.Mock）
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithName 设置守卫名称，用于日志
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithReporter 设置指标记录器
func WithReporter(r metrics.Reporter) Option {
	return func(s *settings) {
		s.reporter = metrics.OrNop(r)
	}
}

// withRegistry 登记到 Factory
func withRegistry(f *Factory) Option {
	return func(s *settings) {
		s.registry = f
	}
}
