// Package interfaces 定义 alumnet 公共接口
//
// 本文件定义 EventBus 接口，提供进程内事件发布订阅功能。
package interfaces

import (
	"errors"
	"fmt"
	"time"

	"github.com/alumnet/go-alumnet/pkg/types"
)

// EventBus 定义事件总线接口
//
// 这是未类型化的存储层接口：载荷以 any 传递。应用代码应通过
// eventbus.Subscribe / eventbus.Emit 等泛型函数使用 types.Topic，
// 在调用点获得载荷类型检查。
type EventBus interface {
	// Subscribe 为事件注册处理器，返回取消订阅函数
	//
	// 同一事件重复注册同一处理器（可比较且相等）不会产生重复投递，
	// 返回的是已有注册的取消函数。取消函数可重复调用。
	Subscribe(name types.EventName, handler RawHandler) (unsubscribe func())

	// Unsubscribe 移除处理器，未注册时为空操作
	Unsubscribe(name types.EventName, handler RawHandler)

	// Emit 按注册顺序同步调用该事件的所有处理器
	//
	// 处理器失败（返回错误或 panic）会被记录并吞掉，不影响其他处理器，
	// 也不会传回调用方。
	Emit(name types.EventName, payload any)

	// Subscribers 返回事件当前的处理器数量
	Subscribers(name types.EventName) int

	// Events 返回当前至少有一个处理器的事件名
	Events() []types.EventName
}

// RawHandler 未类型化的事件处理器
type RawHandler interface {
	HandleRaw(payload any) error
}

// Handler 类型化事件处理器
//
// 返回的错误会被总线记录并交给 ErrorObserver，不会传回发射方。
type Handler[T any] interface {
	HandleEvent(payload T) error
}

// HandlerFunc 函数适配器
//
// HandlerFunc 不可比较：每次订阅都是独立注册，只能通过返回的取消函数移除。
// 需要按引用去重或取消时使用 Func 包装。
type HandlerFunc[T any] func(payload T) error

// HandleEvent 实现 Handler
func (f HandlerFunc[T]) HandleEvent(payload T) error {
	return f(payload)
}

// ============================================================================
//                              处理器失败
// ============================================================================

// ErrHandlerPanic 处理器发生 panic
var ErrHandlerPanic = errors.New("event handler panicked")

// ErrPayloadType 载荷类型与处理器期望的类型不符
var ErrPayloadType = errors.New("unexpected payload type")

// HandlerError 描述一次处理器失败
type HandlerError struct {
	// Event 事件名
	Event types.EventName

	// SubscriptionID 失败处理器的注册 ID
	SubscriptionID string

	// Err 处理器返回的错误；panic 时为 ErrHandlerPanic
	Err error

	// Panic 恢复得到的 panic 值，非 panic 时为 nil
	Panic any
}

// Error 实现 error 接口
func (e *HandlerError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("handler %s for %s panicked: %v", e.SubscriptionID, e.Event, e.Panic)
	}
	return fmt.Sprintf("handler %s for %s failed: %v", e.SubscriptionID, e.Event, e.Err)
}

// Unwrap 返回底层错误
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// ErrorObserver 处理器失败观察者
//
// 在 Emit 的调用栈上同步调用，应尽快返回。
type ErrorObserver func(*HandlerError)

// ============================================================================
//                              选项
// ============================================================================

// BusOpt 事件总线选项函数类型
type BusOpt func(*BusSettings)

// BusSettings 事件总线设置（导出以供实现使用）
type BusSettings struct {
	// ErrorObserver 处理器失败观察者
	ErrorObserver ErrorObserver

	// StackInterval panic 堆栈日志的最小间隔，0 表示每次都输出
	StackInterval time.Duration
}

// WithErrorObserver 设置处理器失败观察者
func WithErrorObserver(o ErrorObserver) BusOpt {
	return func(s *BusSettings) {
		s.ErrorObserver = o
	}
}

// WithStackInterval 设置 panic 堆栈日志间隔
func WithStackInterval(d time.Duration) BusOpt {
	return func(s *BusSettings) {
		s.StackInterval = d
	}
}
