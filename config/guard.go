package config

import (
	"errors"
	"time"
)

// GuardConfig 动作守卫配置
type GuardConfig struct {
	// Cooldown 守卫接受一次调用后的抑制窗口
	// 默认值: 500ms
	Cooldown Duration `json:"cooldown"`
}

// DefaultGuardConfig 返回默认的守卫配置
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Cooldown: Duration(500 * time.Millisecond),
	}
}

// Validate 验证守卫配置
func (c *GuardConfig) Validate() error {
	if c.Cooldown <= 0 {
		return errors.New("guard: cooldown must be positive")
	}
	return nil
}
