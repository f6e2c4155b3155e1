// Package logger 提供统一的日志接口
//
// 支持通过环境变量配置日志级别：
//   - ALUMNET_LOG_LEVEL: 设置日志级别，支持按子系统配置
//     格式: 子系统=级别,子系统=级别,默认级别
//     示例: core/eventbus=debug,core/guard=warn,info
//   - ALUMNET_LOG_FORMAT: 日志格式 (text 或 json)
//   - ALUMNET_LOG_ADD_SOURCE: 是否输出源码位置
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// 环境变量名
const (
	EnvLevel     = "ALUMNET_LOG_LEVEL"
	EnvFormat    = "ALUMNET_LOG_FORMAT"
	EnvAddSource = "ALUMNET_LOG_ADD_SOURCE"
)

// LogFormat 日志输出格式
type LogFormat int

const (
	// FormatText 文本格式（默认）
	FormatText LogFormat = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// ParseFormat 解析格式名称，未知名称回退为文本格式
func ParseFormat(name string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(name), "json") {
		return FormatJSON
	}
	return FormatText
}

// Config 日志配置
type Config struct {
	// DefaultLevel 默认日志级别
	DefaultLevel slog.Level

	// SubsystemLevels 各子系统的日志级别
	SubsystemLevels map[string]slog.Level

	// Format 输出格式
	Format LogFormat

	// AddSource 是否添加源码位置
	AddSource bool
}

// LevelForSubsystem 获取指定子系统的日志级别
func (c *Config) LevelForSubsystem(subsystem string) slog.Level {
	if level, ok := c.SubsystemLevels[subsystem]; ok {
		return level
	}
	return c.DefaultLevel
}

var (
	configCache *Config
	configMu    sync.Mutex
)

// ConfigFromEnv 返回当前生效的配置
//
// 首次调用时从环境变量解析，之后返回缓存；Apply 会覆盖缓存。
func ConfigFromEnv() *Config {
	configMu.Lock()
	defer configMu.Unlock()
	if configCache == nil {
		configCache = parseConfig()
		setFormat(configCache.Format)
	}
	return configCache
}

// parseConfig 解析环境变量配置
func parseConfig() *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          FormatText,
	}

	if levelStr := os.Getenv(EnvLevel); levelStr != "" {
		parseLevelConfig(cfg, levelStr)
	}
	if formatStr := os.Getenv(EnvFormat); formatStr != "" {
		cfg.Format = ParseFormat(formatStr)
	}
	if addSourceStr := os.Getenv(EnvAddSource); addSourceStr != "" {
		cfg.AddSource = addSourceStr != "false" && addSourceStr != "0"
	}

	return cfg
}

// parseLevelConfig 解析日志级别配置字符串
// 格式: subsystem=level,subsystem=level,defaultLevel
func parseLevelConfig(cfg *Config, levelStr string) {
	for _, part := range strings.Split(levelStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		subsystem, levelName, found := strings.Cut(part, "=")
		if !found {
			if level, ok := ParseLevel(part); ok {
				cfg.DefaultLevel = level
			}
			continue
		}
		if level, ok := ParseLevel(strings.TrimSpace(levelName)); ok {
			cfg.SubsystemLevels[strings.TrimSpace(subsystem)] = level
		}
	}
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Apply 用级别配置串（与 ALUMNET_LOG_LEVEL 同格式）和格式名覆盖当前配置
//
// 已创建的子系统 Logger 会立即切换级别和格式。环境变量优先：
// ALUMNET_LOG_LEVEL 在 levelSpec 之上再解析一次，设置了 ALUMNET_LOG_FORMAT 时忽略 format。
func Apply(levelSpec, format string) {
	cfg := ConfigFromEnv()

	configMu.Lock()
	next := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          cfg.Format,
		AddSource:       cfg.AddSource,
	}
	parseLevelConfig(next, levelSpec)
	if envLevel := os.Getenv(EnvLevel); envLevel != "" {
		parseLevelConfig(next, envLevel)
	}
	if format != "" && os.Getenv(EnvFormat) == "" {
		next.Format = ParseFormat(format)
	}
	configCache = next
	setFormat(next.Format)
	configMu.Unlock()

	handlers.Range(func(key, value any) bool {
		value.(*subsystemHandler).SetLevel(next.LevelForSubsystem(key.(string)))
		return true
	})
}

// ResetConfig 重置配置缓存（仅用于测试）
func ResetConfig() {
	configMu.Lock()
	configCache = nil
	setFormat(FormatText)
	configMu.Unlock()
}
