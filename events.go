package alumnet

import (
	"github.com/alumnet/go-alumnet/internal/core/eventbus"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型化事件入口
// ════════════════════════════════════════════════════════════════════════════

// Subscribe 订阅事件，返回取消订阅函数
//
// 同一事件重复订阅同一个可比较的处理器不会重复投递。
func Subscribe[T any](bus interfaces.EventBus, topic types.Topic[T], h interfaces.Handler[T]) func() {
	return eventbus.Subscribe(bus, topic, h)
}

// SubscribeFunc 用函数订阅事件，每次调用都是独立注册
func SubscribeFunc[T any](bus interfaces.EventBus, topic types.Topic[T], fn func(T)) func() {
	return eventbus.SubscribeFunc(bus, topic, fn)
}

// Unsubscribe 按处理器引用取消订阅，未注册时为空操作
func Unsubscribe[T any](bus interfaces.EventBus, topic types.Topic[T], h interfaces.Handler[T]) {
	eventbus.Unsubscribe(bus, topic, h)
}

// Emit 同步发射事件
func Emit[T any](bus interfaces.EventBus, topic types.Topic[T], payload T) {
	eventbus.Emit(bus, topic, payload)
}

// Func 把函数包装为可比较的处理器引用
func Func[T any](fn func(T)) interfaces.Handler[T] {
	return eventbus.Func(fn)
}
