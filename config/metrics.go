package config

import (
	"errors"
	"regexp"
)

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enabled 是否启用 Prometheus 指标
	Enabled bool `json:"enabled"`

	// Namespace 指标名前缀
	// 默认值: "alumnet"
	Namespace string `json:"namespace"`
}

// DefaultMetricsConfig 返回默认的指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "alumnet",
	}
}

var metricNamespaceRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !metricNamespaceRe.MatchString(c.Namespace) {
		return errors.New("metrics: namespace must match [a-zA-Z_][a-zA-Z0-9_]*")
	}
	return nil
}
