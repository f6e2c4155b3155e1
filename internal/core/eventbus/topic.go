package eventbus

import (
	"fmt"

	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/types"
)

// ============================================================================
// 类型化处理器
// ============================================================================

// funcRef 把函数包装为可比较的处理器引用
type funcRef[T any] struct {
	fn func(T)
}

func (r *funcRef[T]) HandleEvent(payload T) error {
	r.fn(payload)
	return nil
}

// Func 把函数包装为处理器引用
//
// 返回值是指针，只与自身相等：保存它即可重复订阅（不会重复投递）
// 或按引用取消订阅。
func Func[T any](fn func(T)) interfaces.Handler[T] {
	return &funcRef[T]{fn: fn}
}

// adapter 把类型化处理器适配为 RawHandler
//
// adapter 是值类型，可比较性与身份都由内部的 Handler 决定。
type adapter[T any] struct {
	h interfaces.Handler[T]
}

func (a adapter[T]) HandleRaw(payload any) error {
	p, ok := payload.(T)
	if !ok {
		return fmt.Errorf("%w: got %T", interfaces.ErrPayloadType, payload)
	}
	return a.h.HandleEvent(p)
}

// ============================================================================
// 类型化入口
// ============================================================================

// Subscribe 订阅 topic，返回取消订阅函数
func Subscribe[T any](bus interfaces.EventBus, topic types.Topic[T], h interfaces.Handler[T]) func() {
	if h == nil {
		logger.Warn("忽略空处理器的订阅", "event", topic.Name())
		return func() {}
	}
	return bus.Subscribe(topic.Name(), adapter[T]{h: h})
}

// SubscribeFunc 用函数订阅 topic
//
// 每次调用都是独立注册。
func SubscribeFunc[T any](bus interfaces.EventBus, topic types.Topic[T], fn func(T)) func() {
	return Subscribe(bus, topic, Func(fn))
}

// Unsubscribe 按处理器引用取消订阅，未注册时为空操作
func Unsubscribe[T any](bus interfaces.EventBus, topic types.Topic[T], h interfaces.Handler[T]) {
	if h == nil {
		return
	}
	bus.Unsubscribe(topic.Name(), adapter[T]{h: h})
}

// Emit 发射 topic 事件
func Emit[T any](bus interfaces.EventBus, topic types.Topic[T], payload T) {
	bus.Emit(topic.Name(), payload)
}
