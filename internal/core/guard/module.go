package guard

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/alumnet/go-alumnet/config"
	"github.com/alumnet/go-alumnet/internal/core/metrics"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Guard 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config   `optional:"true"`
	Reporter   metrics.Reporter `optional:"true"`
	Clock      clock.Clock      `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Factory  *Factory
	Registry interfaces.GuardRegistry
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("guard",
		fx.Provide(ProvideFactory),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideFactory 提供 Factory 实例
func ProvideFactory(p Params) Result {
	cfg := config.DefaultGuardConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Guard
	}

	f := NewFactory(cfg.Cooldown.Duration(), p.Clock, p.Reporter)
	return Result{
		Factory:  f,
		Registry: f,
	}
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC      fx.Lifecycle
	Factory *Factory
}

// registerLifecycle 停止时销毁所有存活的守卫
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Factory.CloseAll()
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Name 模块名称
	Name = "guard"
	// Description 模块描述
	Description = "动作守卫模块，提供冷却窗口内的前沿抑制"
)
