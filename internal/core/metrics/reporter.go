package metrics

import "github.com/alumnet/go-alumnet/pkg/types"

// GuardResult 守卫调用结果
type GuardResult string

const (
	// GuardAccepted 调用被接受，动作已执行
	GuardAccepted GuardResult = "accepted"
	// GuardSuppressed 冷却窗口内被丢弃
	GuardSuppressed GuardResult = "suppressed"
	// GuardDisabled 守卫禁用，被丢弃
	GuardDisabled GuardResult = "disabled"
	// GuardClosed 守卫已销毁，被丢弃
	GuardClosed GuardResult = "closed"
)

// Reporter 记录事件总线与守卫的运行指标
type Reporter interface {
	// EventEmitted 记录一次事件发射
	EventEmitted(name types.EventName)

	// HandlerFailed 记录一次处理器失败
	HandlerFailed(name types.EventName)

	// SubscribersChanged 更新事件的订阅者数量
	SubscribersChanged(name types.EventName, count int)

	// GuardInvoked 记录一次守卫调用结果
	GuardInvoked(result GuardResult)
}

// NopReporter 不记录任何指标
type NopReporter struct{}

var _ Reporter = NopReporter{}

func (NopReporter) EventEmitted(types.EventName)            {}
func (NopReporter) HandlerFailed(types.EventName)           {}
func (NopReporter) SubscribersChanged(types.EventName, int) {}
func (NopReporter) GuardInvoked(GuardResult)                {}

// OrNop 把 nil 替换为 NopReporter
func OrNop(r Reporter) Reporter {
	if r == nil {
		return NopReporter{}
	}
	return r
}
