package config

import (
	"errors"

	"go.uber.org/multierr"
)

// Validate 验证配置的有效性
//
// 所有子配置都会被检查，返回的错误汇总了全部问题
// （可用 multierr.Errors 拆分）。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	return multierr.Combine(
		c.EventBus.Validate(),
		c.Guard.Validate(),
		c.Metrics.Validate(),
		c.Log.Validate(),
	)
}

// ValidateAndFix 验证配置并修复可修复的问题
//
//   - 非正的冷却时间 -> 默认值
//   - 负的堆栈间隔 -> 默认值
//   - 启用指标但命名空间为空 -> 默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	if c.Guard.Cooldown <= 0 {
		c.Guard.Cooldown = DefaultGuardConfig().Cooldown
	}
	if c.EventBus.StackInterval < 0 {
		c.EventBus.StackInterval = DefaultEventBusConfig().StackInterval
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsConfig().Namespace
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
