package config

import (
	"errors"
	"time"
)

// EventBusConfig 事件总线配置
type EventBusConfig struct {
	// StackInterval 处理器 panic 堆栈日志的最小输出间隔
	// 处理器持续 panic 时，失败日志每次都会输出，堆栈只按此间隔附带
	// 0 表示每次都附带堆栈
	// 默认值: 1s
	StackInterval Duration `json:"stack_interval"`
}

// DefaultEventBusConfig 返回默认的事件总线配置
func DefaultEventBusConfig() EventBusConfig {
	return EventBusConfig{
		StackInterval: Duration(time.Second),
	}
}

// Validate 验证事件总线配置
func (c *EventBusConfig) Validate() error {
	if c.StackInterval < 0 {
		return errors.New("event_bus: stack_interval cannot be negative")
	}
	return nil
}
