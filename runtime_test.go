package alumnet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/alumnet/go-alumnet/config"
	"github.com/alumnet/go-alumnet/internal/core/eventbus"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/lib/log"
	"github.com/alumnet/go-alumnet/pkg/types"
)

// newTestRuntime 创建运行时并在测试结束时关闭
func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	rt, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造
// ════════════════════════════════════════════════════════════════════════════

// TestNew_Defaults 默认配置
func TestNew_Defaults(t *testing.T) {
	rt := newTestRuntime(t)

	require.NotNil(t, rt.Bus())
	require.NotNil(t, rt.Guards())
	require.NotNil(t, rt.Gatherer())
	assert.Equal(t, interfaces.DefaultGuardCooldown, rt.Guards().Cooldown())
	assert.True(t, rt.Config().Metrics.Enabled)
	assert.False(t, rt.IsRunning())
}

// TestNew_InvalidOptions 非法选项返回 ErrInvalidOption
func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"nil config", WithConfig(nil)},
		{"zero cooldown", WithGuardCooldown(0)},
		{"negative cooldown", WithGuardCooldown(-time.Second)},
		{"nil registry", WithRegistry(nil)},
		{"nil clock", WithClock(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOption))
		})
	}
}

// TestNew_InvalidConfig 配置验证失败
func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Namespace = "bad namespace"

	_, err := New(WithConfig(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

// TestNew_ConfigCopied 运行时持有配置副本
func TestNew_ConfigCopied(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Guard.Cooldown = config.Duration(time.Second)

	rt := newTestRuntime(t, WithConfig(cfg))
	cfg.Guard.Cooldown = config.Duration(time.Minute)

	assert.Equal(t, time.Second, rt.Config().Guard.Cooldown.Duration())
	assert.Equal(t, time.Second, rt.Guards().Cooldown())
}

// TestNew_ConfigFile 从文件加载配置，选项覆盖文件
func TestNew_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alumnet.json")
	data := []byte(`{"guard": {"cooldown": "250ms"}, "metrics": {"namespace": "campus"}}`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	rt := newTestRuntime(t, WithConfigFile(path))
	assert.Equal(t, 250*time.Millisecond, rt.Guards().Cooldown())
	assert.Equal(t, "campus", rt.Config().Metrics.Namespace)

	rt2 := newTestRuntime(t, WithConfigFile(path), WithGuardCooldown(time.Second), WithRegistry(prometheus.NewRegistry()))
	assert.Equal(t, time.Second, rt2.Guards().Cooldown())
}

// TestNew_MissingConfigFile 配置文件不存在
func TestNew_MissingConfigFile(t *testing.T) {
	_, err := New(WithConfigFile(filepath.Join(t.TempDir(), "missing.json")))
	require.Error(t, err)
}

// TestNew_FxOptions 用户 Fx 选项可以取出内部组件
func TestNew_FxOptions(t *testing.T) {
	var bus *eventbus.Bus
	rt := newTestRuntime(t, WithFxOptions(fx.Populate(&bus)))

	require.NotNil(t, bus)
	assert.Same(t, bus, rt.Bus())
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// TestRuntime_Lifecycle Start/Stop/Close 状态转换
func TestRuntime_Lifecycle(t *testing.T) {
	ctx := context.Background()
	rt, err := New()
	require.NoError(t, err)

	assert.ErrorIs(t, rt.Stop(ctx), ErrNotStarted)

	require.NoError(t, rt.Start(ctx))
	assert.True(t, rt.IsRunning())
	assert.ErrorIs(t, rt.Start(ctx), ErrAlreadyStarted)

	require.NoError(t, rt.Stop(ctx))
	assert.False(t, rt.IsRunning())

	require.NoError(t, rt.Close())
	require.NoError(t, rt.Close())
	assert.ErrorIs(t, rt.Start(ctx), ErrRuntimeClosed)
	assert.ErrorIs(t, rt.Stop(ctx), ErrRuntimeClosed)
}

// TestStart_Shortcut 快捷启动
func TestStart_Shortcut(t *testing.T) {
	rt, err := Start(context.Background())
	require.NoError(t, err)
	defer rt.Close()

	assert.True(t, rt.IsRunning())
}

// TestRuntime_CloseTearsDownGuards 关闭时销毁守卫并取消定时器
func TestRuntime_CloseTearsDownGuards(t *testing.T) {
	mock := clock.NewMock()
	rt, err := Start(context.Background(), WithClock(mock))
	require.NoError(t, err)

	var count int
	open := NewAction(rt, func() { count++ })
	save := NewGuard(rt, func(string) { count++ })
	require.True(t, open.Trigger())
	assert.Equal(t, 2, rt.Guards().Active())

	require.NoError(t, rt.Close())
	assert.Equal(t, 0, rt.Guards().Active())

	mock.Add(time.Second)
	assert.False(t, open.Trigger())
	assert.False(t, save.Invoke("d1"))
	assert.Equal(t, 1, count)
}

// TestRuntime_CloseWithoutStart 未启动直接关闭也销毁守卫
func TestRuntime_CloseWithoutStart(t *testing.T) {
	rt, err := New(WithClock(clock.NewMock()))
	require.NoError(t, err)

	g := NewAction(rt, func() {})
	require.NoError(t, rt.Close())

	assert.Equal(t, 0, rt.Guards().Active())
	assert.False(t, g.Trigger())
}

// ════════════════════════════════════════════════════════════════════════════
//                              事件与守卫
// ════════════════════════════════════════════════════════════════════════════

// TestRuntime_BookmarkScenario 收藏角标场景
func TestRuntime_BookmarkScenario(t *testing.T) {
	rt := newTestRuntime(t)

	var calls []types.BookmarkChanged
	updateBadge := Func(func(p types.BookmarkChanged) {
		calls = append(calls, p)
	})

	unsubscribe := Subscribe(rt.Bus(), types.ForumBookmarkChanged, updateBadge)
	Emit(rt.Bus(), types.ForumBookmarkChanged, types.BookmarkChanged{DiscussionID: "d1", Saved: true})

	unsubscribe()
	Emit(rt.Bus(), types.ForumBookmarkChanged, types.BookmarkChanged{DiscussionID: "d1", Saved: false})

	require.Len(t, calls, 1)
	assert.Equal(t, types.BookmarkChanged{DiscussionID: "d1", Saved: true}, calls[0])

	// 按引用取消订阅
	Subscribe(rt.Bus(), types.ForumBookmarkChanged, updateBadge)
	Unsubscribe(rt.Bus(), types.ForumBookmarkChanged, updateBadge)
	assert.Equal(t, 0, rt.Bus().Subscribers(types.ForumBookmarkChanged.Name()))
}

// TestRuntime_ErrorObserver 处理器失败通知观察者，其他处理器照常执行
func TestRuntime_ErrorObserver(t *testing.T) {
	var failures []*interfaces.HandlerError
	rt := newTestRuntime(t, WithErrorObserver(func(e *interfaces.HandlerError) {
		failures = append(failures, e)
	}))

	var later int
	SubscribeFunc(rt.Bus(), types.TabHomeRefresh, func(types.TabRefresh) { panic("boom") })
	SubscribeFunc(rt.Bus(), types.TabHomeRefresh, func(types.TabRefresh) { later++ })

	Emit(rt.Bus(), types.TabHomeRefresh, types.NewTabRefresh(time.Now()))

	assert.Equal(t, 1, later)
	require.Len(t, failures, 1)
	assert.Equal(t, types.EventTabHomeRefresh, failures[0].Event)
	assert.ErrorIs(t, failures[0], interfaces.ErrHandlerPanic)
}

// TestNew_JSONLogFormat log.format=json 对包级 Logger 同样生效
func TestNew_JSONLogFormat(t *testing.T) {
	t.Setenv("ALUMNET_LOG_LEVEL", "")
	t.Setenv("ALUMNET_LOG_FORMAT", "")

	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.Configure("info", "text")
	})

	cfg := config.NewConfig()
	cfg.Log.Format = "json"
	rt := newTestRuntime(t, WithConfig(cfg))

	SubscribeFunc(rt.Bus(), types.TabHomeRefresh, func(types.TabRefresh) { panic("boom") })
	Emit(rt.Bus(), types.TabHomeRefresh, types.NewTabRefresh(time.Now()))

	var failure map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec), "not json: %s", line)
		if rec["msg"] == "事件处理器失败" {
			failure = rec
		}
	}
	require.NotNil(t, failure)
	assert.Equal(t, "core/eventbus", failure["subsystem"])
	assert.Equal(t, "warn", failure["level"])
	assert.Equal(t, string(types.EventTabHomeRefresh), failure["event"])
}

// TestRuntime_GuardCooldown 守卫使用运行时冷却时间
func TestRuntime_GuardCooldown(t *testing.T) {
	mock := clock.NewMock()
	rt := newTestRuntime(t, WithClock(mock), WithGuardCooldown(300*time.Millisecond))

	var count int
	g := NewGuard(rt, func(int) { count++ }, GuardName("open-profile"))

	require.True(t, g.Invoke(1))
	mock.Add(200 * time.Millisecond)
	assert.False(t, g.Invoke(2))

	mock.Add(100 * time.Millisecond)
	require.Eventually(t, func() bool { return !g.Suppressing() }, time.Second, time.Millisecond)
	assert.True(t, g.Invoke(3))
	assert.Equal(t, 2, count)

	disabled := NewAction(rt, func() { count++ }, GuardDisabled(true))
	assert.False(t, disabled.Trigger())
	assert.Equal(t, 2, count)
}

// ════════════════════════════════════════════════════════════════════════════
//                              指标
// ════════════════════════════════════════════════════════════════════════════

// TestRuntime_Metrics 事件与守卫活动计入指标
func TestRuntime_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rt := newTestRuntime(t, WithRegistry(reg), WithClock(clock.NewMock()))
	assert.Same(t, reg, rt.Gatherer())

	SubscribeFunc(rt.Bus(), types.TabDiscoverRefresh, func(types.TabRefresh) {})
	Emit(rt.Bus(), types.TabDiscoverRefresh, types.TabRefresh{Timestamp: 1})
	Emit(rt.Bus(), types.TabDiscoverRefresh, types.TabRefresh{Timestamp: 2})

	g := NewAction(rt, func() {})
	g.Trigger()
	g.Trigger()

	count, err := testutil.GatherAndCount(reg, "alumnet_eventbus_emits_total", "alumnet_guard_invocations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count) // 1 个事件标签 + 2 个守卫结果标签
}

// TestRuntime_MetricsDisabled 禁用指标时不注册任何 alumnet 指标
func TestRuntime_MetricsDisabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	rt := newTestRuntime(t, WithRegistry(reg), WithMetrics(false))

	Emit(rt.Bus(), types.TabHomeRefresh, types.TabRefresh{Timestamp: 1})

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// TestVersionInfo 版本信息
func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)

	GitCommit = "0123456789abcdef"
	defer func() { GitCommit = "" }()
	assert.Contains(t, VersionInfo(), "(01234567)")
}
