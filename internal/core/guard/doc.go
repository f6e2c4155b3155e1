// Package guard 实现动作守卫（前沿防抖）
//
// 守卫包装一个用户触发的动作（按钮点击、导航调用），在冷却窗口内只放行
// 第一次调用：
//   - 被接受的调用：进入抑制状态 → 同步执行动作 → 调度一次性解除定时器
//   - 抑制期间的调用：静默丢弃，不排队，也不在窗口结束时补发
//   - 禁用时：所有调用都被丢弃，不调度定时器
//   - 销毁（Close）后：取消挂起的定时器，之后的调用全部丢弃
//
// # 快速开始
//
//	open := guard.NewAction(func() { nav.Push("/events/42") })
//	defer open.Close()
//
//	button.OnTap(func() { open.Trigger() })
//
//	// 带参数的动作
//	save := guard.New(func(id string) { api.Save(id) }, guard.WithCooldown(time.Second))
//	save.Invoke("d1")
//
// # 定时器
//
// 冷却定时器通过 benbjohnson/clock 调度，测试中可注入 clock.Mock 精确推进时间。
// 每个守卫任一时刻最多只有一个挂起的定时器；定时器触发时若守卫已销毁或
// 定时器已过期（代次不匹配），不做任何状态修改。
//
// # Factory
//
// Factory 按运行时配置（冷却时间、时钟、指标）创建守卫，并登记存活的守卫，
// Fx 停止时统一销毁。
//
// # 并发安全
//
// 状态由 sync.Mutex 保护，动作在锁外执行，动作内再次调用同一守卫会被丢弃
// 而不会死锁。
package guard
