package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alumnet/go-alumnet/pkg/types"
)

// Prometheus 基于 client_golang 的 Reporter 实现
type Prometheus struct {
	emits       *prometheus.CounterVec
	failures    *prometheus.CounterVec
	subscribers *prometheus.GaugeVec
	guards      *prometheus.CounterVec
}

var _ Reporter = (*Prometheus)(nil)

// NewPrometheus 创建 Reporter 并注册到 reg
//
// 同名指标已在 reg 中注册时复用已有的收集器，多个运行时可共享同一个 Registry。
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		emits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eventbus",
			Name:      "emits_total",
			Help:      "Number of events emitted, by event name.",
		}, []string{"event"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eventbus",
			Name:      "handler_failures_total",
			Help:      "Number of handler invocations that returned an error or panicked.",
		}, []string{"event"}),
		subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "eventbus",
			Name:      "subscribers",
			Help:      "Current number of registered handlers, by event name.",
		}, []string{"event"}),
		guards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "invocations_total",
			Help:      "Guarded invocations, by result.",
		}, []string{"result"}),
	}

	var err error
	if p.emits, err = registerVec(reg, p.emits); err != nil {
		return nil, err
	}
	if p.failures, err = registerVec(reg, p.failures); err != nil {
		return nil, err
	}
	if p.subscribers, err = registerVec(reg, p.subscribers); err != nil {
		return nil, err
	}
	if p.guards, err = registerVec(reg, p.guards); err != nil {
		return nil, err
	}
	return p, nil
}

// registerVec 注册收集器，已存在时返回已注册的实例
func registerVec[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metrics: %w", err)
	}
	return c, nil
}

// EventEmitted 记录一次事件发射
func (p *Prometheus) EventEmitted(name types.EventName) {
	p.emits.WithLabelValues(string(name)).Inc()
}

// HandlerFailed 记录一次处理器失败
func (p *Prometheus) HandlerFailed(name types.EventName) {
	p.failures.WithLabelValues(string(name)).Inc()
}

// SubscribersChanged 更新订阅者数量
func (p *Prometheus) SubscribersChanged(name types.EventName, count int) {
	p.subscribers.WithLabelValues(string(name)).Set(float64(count))
}

// GuardInvoked 记录守卫调用结果
func (p *Prometheus) GuardInvoked(result GuardResult) {
	p.guards.WithLabelValues(string(result)).Inc()
}
