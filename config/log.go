package config

import (
	"fmt"
	"strings"
)

// LogConfig 日志配置
//
// 环境变量 ALUMNET_LOG_LEVEL / ALUMNET_LOG_FORMAT 中显式设置的值优先。
type LogConfig struct {
	// Level 级别配置串，格式同 ALUMNET_LOG_LEVEL
	// 示例: "core/eventbus=debug,info"
	// 默认值: "info"
	Level string `json:"level"`

	// Format 输出格式: text 或 json
	// 默认值: "text"
	Format string `json:"format"`
}

// DefaultLogConfig 返回默认的日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate 验证日志配置
func (c *LogConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", c.Format)
	}

	for _, part := range strings.Split(c.Level, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		level := part
		if _, l, ok := strings.Cut(part, "="); ok {
			level = l
		}
		if !validLevels[strings.ToLower(strings.TrimSpace(level))] {
			return fmt.Errorf("log: unknown level in %q", part)
		}
	}
	return nil
}
