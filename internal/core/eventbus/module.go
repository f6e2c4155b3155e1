package eventbus

import (
	"context"

	"go.uber.org/fx"

	"github.com/alumnet/go-alumnet/config"
	"github.com/alumnet/go-alumnet/internal/core/metrics"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params EventBus 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config           `optional:"true"`
	Reporter   metrics.Reporter         `optional:"true"`
	Observer   interfaces.ErrorObserver `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	EventBus interfaces.EventBus
	Bus      *Bus
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideEventBus),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideEventBus 提供 EventBus 实例
func ProvideEventBus(p Params) Result {
	cfg := config.DefaultEventBusConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.EventBus
	}

	bus := NewBus(
		WithStackInterval(cfg.StackInterval.Duration()),
		WithErrorObserver(p.Observer),
	)
	bus.SetReporter(p.Reporter)

	return Result{
		EventBus: bus,
		Bus:      bus,
	}
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC  fx.Lifecycle
	Bus *Bus
}

// registerLifecycle 注册生命周期
//
// 总线随进程存在，停止时不清空注册表，只报告仍未取消的订阅。
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			for _, name := range input.Bus.Events() {
				logger.Debug("停止时仍有订阅", "event", name, "subscribers", input.Bus.Subscribers(name))
			}
			return nil
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Name 模块名称
	Name = "eventbus"
	// Description 模块描述
	Description = "事件总线模块，提供封闭事件集合上的同步发布/订阅"
)
