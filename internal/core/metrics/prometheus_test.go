package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnet/go-alumnet/pkg/types"
)

// TestPrometheus_Record 测试指标记录
func TestPrometheus_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg, "test")
	require.NoError(t, err)

	p.EventEmitted(types.EventForumBookmarkChanged)
	p.EventEmitted(types.EventForumBookmarkChanged)
	p.EventEmitted(types.EventTabHomeRefresh)
	p.HandlerFailed(types.EventForumBookmarkChanged)
	p.SubscribersChanged(types.EventTabHomeRefresh, 3)
	p.GuardInvoked(GuardAccepted)
	p.GuardInvoked(GuardSuppressed)
	p.GuardInvoked(GuardSuppressed)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.emits.WithLabelValues("forum:bookmarkChanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.emits.WithLabelValues("tab:homeRefresh")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.failures.WithLabelValues("forum:bookmarkChanged")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.subscribers.WithLabelValues("tab:homeRefresh")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.guards.WithLabelValues("suppressed")))

	n, err := testutil.GatherAndCount(reg, "test_guard_invocations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// TestPrometheus_SharedRegistry 测试共享 Registry 时复用收集器
func TestPrometheus_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPrometheus(reg, "shared")
	require.NoError(t, err)
	b, err := NewPrometheus(reg, "shared")
	require.NoError(t, err)

	a.EventEmitted(types.EventTabDiscoverRefresh)
	b.EventEmitted(types.EventTabDiscoverRefresh)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.emits.WithLabelValues("tab:discoverRefresh")))
}

// TestOrNop 测试 nil 替换
func TestOrNop(t *testing.T) {
	assert.Equal(t, NopReporter{}, OrNop(nil))

	p := &Prometheus{}
	assert.Same(t, p, OrNop(p))

	// NopReporter 不应 panic
	r := OrNop(nil)
	r.EventEmitted(types.EventTabHomeRefresh)
	r.HandlerFailed(types.EventTabHomeRefresh)
	r.SubscribersChanged(types.EventTabHomeRefresh, 1)
	r.GuardInvoked(GuardClosed)
}
