package alumnet

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/alumnet/go-alumnet/config"
	"github.com/alumnet/go-alumnet/internal/core/eventbus"
	"github.com/alumnet/go-alumnet/internal/core/guard"
	"github.com/alumnet/go-alumnet/internal/core/metrics"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/lib/log"
)

var fxLogger = log.Logger("alumnet/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置与注入的依赖（Registry、Clock、ErrorObserver）
//  2. Metrics → EventBus → Guard
//  3. 用户扩展
//  4. Runtime 组件注入
func buildFxApp(o *options, cfg *config.Config, rt *Runtime) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置与外部依赖
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(cfg),
	}
	if o.registry != nil {
		modules = append(modules, fx.Supply(o.registry))
	}
	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}
	if o.observer != nil {
		observer := o.observer
		modules = append(modules, fx.Provide(func() interfaces.ErrorObserver { return observer }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		metrics.Module,    // 指标
		eventbus.Module(), // 事件总线
		guard.Module(),    // 动作守卫
	)

	// ════════════════════════════════════════════════════════════════════════
	// 3. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(o.fxOptions) > 0 {
		modules = append(modules, o.fxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. Runtime 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectRuntimeComponents(rt)))

	// ════════════════════════════════════════════════════════════════════════
	// 5. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.WithLogger(fxEventLogger(o.fxDebug)))

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("fx: %w", err)
	}
	return app, nil
}

// fxEventLogger 返回 Fx 事件日志构造函数
//
// 默认不输出，避免干扰用户日志。
func fxEventLogger(debug bool) func() fxevent.Logger {
	return func() fxevent.Logger {
		if !debug {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		zl, err := zap.NewDevelopment()
		if err != nil {
			fxLogger.Warn("创建 Fx 调试日志失败", "error", err)
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		return &fxevent.ZapLogger{Logger: zl}
	}
}

// ════════════════════════════════════════════════════════════════════════════
// 组件注入辅助函数
// ════════════════════════════════════════════════════════════════════════════

// runtimeInjectParams Runtime 组件注入参数
type runtimeInjectParams struct {
	fx.In

	Bus      *eventbus.Bus
	Guards   *guard.Factory
	Gatherer prometheus.Gatherer
	Reporter metrics.Reporter
}

// injectRuntimeComponents 把 Fx 构造的组件注入 Runtime
func injectRuntimeComponents(rt *Runtime) func(runtimeInjectParams) {
	return func(p runtimeInjectParams) {
		rt.bus = p.Bus
		rt.guards = p.Guards
		rt.gatherer = p.Gatherer

		_, metricsOn := p.Reporter.(*metrics.Prometheus)
		fxLogger.Debug("运行时组件已注入",
			"metrics", metricsOn,
			"cooldown", p.Guards.Cooldown())
	}
}
