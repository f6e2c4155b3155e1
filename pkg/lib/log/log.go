// Package log 提供 alumnet 统一日志入口
//
// 各组件通过 log.Logger("core/eventbus") 获取子系统 Logger，
// 级别与格式由 internal/util/logger 统一管理。
package log

import (
	"io"
	"log/slog"

	"github.com/alumnet/go-alumnet/internal/util/logger"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger 返回指定子系统的 Logger
func Logger(subsystem string) *slog.Logger {
	return logger.Logger(subsystem)
}

// SetOutput 设置日志输出目标
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel 设置子系统日志级别
func SetLevel(subsystem string, level slog.Level) {
	logger.SetLevel(subsystem, level)
}

// Configure 按配置串调整日志级别与格式
//
//	log.Configure("core/eventbus=debug,info", "json")
func Configure(levelSpec, format string) {
	logger.Apply(levelSpec, format)
}

// Discard 返回丢弃所有输出的 Logger（测试用）
func Discard() *slog.Logger {
	return logger.Discard()
}
