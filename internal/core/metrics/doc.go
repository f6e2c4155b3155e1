// Package metrics 提供事件总线与动作守卫的监控指标
//
// metrics 模块定义 Reporter 接口，由 eventbus 与 guard 在关键路径上调用：
//   - 事件发射次数（按事件名）
//   - 处理器失败次数（按事件名）
//   - 当前订阅者数量（按事件名）
//   - 守卫调用结果（accepted / suppressed / disabled / closed）
//
// # 实现
//
//   - NopReporter: 空实现，指标关闭或单元测试时使用
//   - Prometheus: 基于 prometheus/client_golang，注册到指定 Registry
//
// # Fx 模块
//
//	app := fx.New(
//	    metrics.Module,
//	    fx.Invoke(func(r metrics.Reporter, g prometheus.Gatherer) { ... }),
//	)
//
// 未注入 *prometheus.Registry 时模块自建一个；config.Metrics.Enabled 为 false 时
// 提供 NopReporter。
//
// # 并发安全
//
// Prometheus 的 Counter/Gauge 自身并发安全，Reporter 可在任意 goroutine 调用。
package metrics
