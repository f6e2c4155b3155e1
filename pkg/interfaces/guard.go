// Package interfaces 定义 alumnet 公共接口
//
// 本文件定义 Guard 接口，提供动作防抖（前沿抑制）功能。
package interfaces

import "time"

// DefaultGuardCooldown 默认冷却时间
const DefaultGuardCooldown = 500 * time.Millisecond

// Guard 定义动作守卫接口
//
// 守卫接受冷却窗口内的第一次调用并同步执行被包装的动作，
// 窗口内的后续调用被静默丢弃（不排队、不在窗口结束时补发）。
type Guard[E any] interface {
	// Invoke 尝试执行动作，返回是否被接受
	Invoke(event E) bool

	// SetDisabled 设置禁用状态，禁用时所有调用都被丢弃
	SetDisabled(disabled bool)

	// Disabled 返回是否禁用
	Disabled() bool

	// Suppressing 返回当前是否处于冷却抑制中
	Suppressing() bool

	// Close 销毁守卫并取消挂起的冷却定时器，可重复调用
	Close() error
}

// ActionGuard 无参动作守卫
type ActionGuard interface {
	Guard[struct{}]

	// Trigger 尝试执行动作，返回是否被接受
	Trigger() bool
}

// GuardRegistry 守卫登记表
//
// 由运行时持有，停止时统一销毁所有存活的守卫。
type GuardRegistry interface {
	// Cooldown 返回运行时配置的默认冷却时间
	Cooldown() time.Duration

	// Active 返回存活的守卫数量
	Active() int

	// CloseAll 销毁所有存活的守卫
	CloseAll() error
}
