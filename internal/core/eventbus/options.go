package eventbus

import (
	"time"

	"github.com/alumnet/go-alumnet/pkg/interfaces"
)

// ============================================================================
// 本地选项函数
// ============================================================================

// WithErrorObserver 设置处理器失败观察者
//
// 与 pkg/interfaces.WithErrorObserver 等效
func WithErrorObserver(o interfaces.ErrorObserver) interfaces.BusOpt {
	return interfaces.WithErrorObserver(o)
}

// WithStackInterval 设置 panic 堆栈日志间隔
//
// 与 pkg/interfaces.WithStackInterval 等效
func WithStackInterval(d time.Duration) interfaces.BusOpt {
	return interfaces.WithStackInterval(d)
}
