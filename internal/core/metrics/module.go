package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/alumnet/go-alumnet/config"
)

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config       `optional:"true"`
	Registry   *prometheus.Registry `optional:"true"`
}

// Result Metrics 模块输出
type Result struct {
	fx.Out

	Reporter Reporter
	Gatherer prometheus.Gatherer
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(ProvideReporter),
)

// ProvideReporter 按配置创建 Reporter
func ProvideReporter(p Params) (Result, error) {
	cfg := config.DefaultMetricsConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Metrics
	}

	reg := p.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	if !cfg.Enabled {
		return Result{Reporter: NopReporter{}, Gatherer: reg}, nil
	}

	r, err := NewPrometheus(reg, cfg.Namespace)
	if err != nil {
		return Result{}, err
	}
	return Result{Reporter: r, Gatherer: reg}, nil
}
