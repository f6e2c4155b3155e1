package alumnet

import (
	"time"

	"github.com/alumnet/go-alumnet/internal/core/guard"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
)

// ════════════════════════════════════════════════════════════════════════════
//                              守卫入口
// ════════════════════════════════════════════════════════════════════════════

// GuardOption 守卫选项
type GuardOption = guard.Option

// GuardCooldown 覆盖运行时的默认冷却时间
func GuardCooldown(d time.Duration) GuardOption {
	return guard.WithCooldown(d)
}

// GuardDisabled 设置初始禁用状态
func GuardDisabled(disabled bool) GuardOption {
	return guard.WithDisabled(disabled)
}

// GuardName 设置守卫名称（用于日志）
func GuardName(name string) GuardOption {
	return guard.WithName(name)
}

// NewGuard 创建带参数动作的守卫
//
// 守卫使用运行时的冷却时间、时钟与指标，运行时停止或关闭时被销毁。
func NewGuard[E any](rt *Runtime, action func(E), opts ...GuardOption) interfaces.Guard[E] {
	return guard.Make(rt.guards, action, opts...)
}

// NewAction 创建无参动作的守卫
func NewAction(rt *Runtime, action func(), opts ...GuardOption) interfaces.ActionGuard {
	return guard.MakeAction(rt.guards, action, opts...)
}
