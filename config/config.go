// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Guard.Cooldown = config.Duration(300 * time.Millisecond)
//
//	cfg, err := config.LoadFile("alumnet.json")
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config 是 alumnet 运行时的完整配置结构
//
//   - EventBus: 事件总线
//   - Guard: 动作守卫
//   - Metrics: 监控指标
//   - Log: 日志
type Config struct {
	// EventBus 事件总线配置
	EventBus EventBusConfig `json:"event_bus"`

	// Guard 动作守卫配置
	Guard GuardConfig `json:"guard"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		EventBus: DefaultEventBusConfig(),
		Guard:    DefaultGuardConfig(),
		Metrics:  DefaultMetricsConfig(),
		Log:      DefaultLogConfig(),
	}
}

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保持默认值。
//
//	{
//	  "guard": {"cooldown": "300ms"},
//	  "metrics": {"enabled": false}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置并验证
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ToJSON 把配置序列化为带缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
