package guard

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alumnet/go-alumnet/pkg/interfaces"
)

// pendingTimer 返回当前挂起的定时器
func pendingTimer[E any](g *Guard[E]) *clock.Timer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer
}

// waitReleased 等待 mock 时钟上的解除回调执行完
func waitReleased[E any](t *testing.T, g *Guard[E]) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !g.Suppressing()
	}, time.Second, time.Millisecond)
}

// ============================================================================
// 接口契约测试
// ============================================================================

// TestGuard_ImplementsInterface 验证 Guard 实现接口
func TestGuard_ImplementsInterface(t *testing.T) {
	var _ interfaces.Guard[int] = (*Guard[int])(nil)
	var _ interfaces.ActionGuard = (*Action)(nil)
}

// TestGuard_DefaultCooldown 默认冷却时间为 500ms
func TestGuard_DefaultCooldown(t *testing.T) {
	g := New(func(int) {})
	defer g.Close()

	assert.Equal(t, 500*time.Millisecond, g.Cooldown())
	assert.Equal(t, interfaces.DefaultGuardCooldown, g.Cooldown())

	g2 := New(func(int) {}, WithCooldown(0))
	defer g2.Close()
	assert.Equal(t, interfaces.DefaultGuardCooldown, g2.Cooldown())

	g3 := New(func(int) {}, WithCooldown(-time.Second))
	defer g3.Close()
	assert.Equal(t, interfaces.DefaultGuardCooldown, g3.Cooldown())
}

// ============================================================================
// 冷却语义
// ============================================================================

// TestGuard_LeadingEdge 首次调用执行，窗口内调用丢弃，窗口后再次执行
func TestGuard_LeadingEdge(t *testing.T) {
	mock := clock.NewMock()
	var calls []int
	g := New(func(n int) { calls = append(calls, n) }, WithClock(mock))
	defer g.Close()

	// t=0
	assert.True(t, g.Invoke(1))
	assert.True(t, g.Suppressing())

	// t=100ms
	mock.Add(100 * time.Millisecond)
	assert.False(t, g.Invoke(2))

	// t=600ms
	mock.Add(500 * time.Millisecond)
	waitReleased(t, g)
	assert.True(t, g.Invoke(3))

	assert.Equal(t, []int{1, 3}, calls)
}

// TestGuard_NoTrailingCall 窗口结束时不补发被丢弃的调用
func TestGuard_NoTrailingCall(t *testing.T) {
	mock := clock.NewMock()
	var count atomic.Int32
	g := NewAction(func() { count.Add(1) }, WithClock(mock))
	defer g.Close()

	for i := 0; i < 5; i++ {
		g.Trigger()
	}
	mock.Add(time.Second)
	waitReleased(t, g.Guard)

	assert.Equal(t, int32(1), count.Load())
}

// TestGuard_WindowBoundary 窗口结束前一刻仍被抑制
func TestGuard_WindowBoundary(t *testing.T) {
	mock := clock.NewMock()
	var count int
	g := New(func(string) { count++ }, WithClock(mock), WithCooldown(200*time.Millisecond))
	defer g.Close()

	require.True(t, g.Invoke("a"))
	mock.Add(199 * time.Millisecond)
	assert.False(t, g.Invoke("b"))
	assert.True(t, g.Suppressing())

	mock.Add(time.Millisecond)
	waitReleased(t, g)
	assert.True(t, g.Invoke("c"))
	assert.Equal(t, 2, count)
}

// TestGuard_SingleTimer 每次被接受的调用只调度一个定时器
func TestGuard_SingleTimer(t *testing.T) {
	mock := clock.NewMock()
	g := New(func(int) {}, WithClock(mock))
	defer g.Close()

	g.Invoke(1)
	first := pendingTimer(g)
	require.NotNil(t, first)

	g.Invoke(2)
	g.Invoke(3)
	assert.Same(t, first, pendingTimer(g))
}

// TestGuard_StaleRelease 过期代次的定时器不修改状态
func TestGuard_StaleRelease(t *testing.T) {
	mock := clock.NewMock()
	g := New(func(int) {}, WithClock(mock))
	defer g.Close()

	g.Invoke(1)
	g.mu.Lock()
	stale := g.gen - 1
	g.mu.Unlock()

	g.release(stale)
	assert.True(t, g.Suppressing())
}

// ============================================================================
// 销毁
// ============================================================================

// TestGuard_CloseCancelsTimer 销毁时取消挂起的定时器
func TestGuard_CloseCancelsTimer(t *testing.T) {
	mock := clock.NewMock()
	var count int
	g := New(func(int) { count++ }, WithClock(mock))

	require.True(t, g.Invoke(1))
	timer := pendingTimer(g)
	require.NotNil(t, timer)

	mock.Add(100 * time.Millisecond)
	require.NoError(t, g.Close())

	// 定时器已被停止，再次 Stop 返回 false
	assert.False(t, timer.Stop())
	assert.Nil(t, pendingTimer(g))

	mock.Add(time.Second)
	// 销毁后状态冻结
	assert.True(t, g.Suppressing())
	assert.False(t, g.Invoke(2))
	assert.Equal(t, 1, count)
}

// TestGuard_CloseIdempotent 重复销毁无副作用
func TestGuard_CloseIdempotent(t *testing.T) {
	g := New(func(int) {}, WithClock(clock.NewMock()))

	require.NoError(t, g.Close())
	require.NoError(t, g.Close())
	assert.False(t, g.Invoke(1))
}

// TestGuard_CloseDuringAction 动作执行中销毁，不再调度定时器
func TestGuard_CloseDuringAction(t *testing.T) {
	mock := clock.NewMock()
	var g *Guard[int]
	g = New(func(int) { _ = g.Close() }, WithClock(mock))

	assert.True(t, g.Invoke(1))
	assert.Nil(t, pendingTimer(g))
}

// TestGuard_CloseLeavesNoGoroutines 真实时钟下销毁后不留下 goroutine
func TestGuard_CloseLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var count atomic.Int32
	g := NewAction(func() { count.Add(1) }, WithCooldown(time.Hour))

	require.True(t, g.Trigger())
	require.NoError(t, g.Close())
	assert.Equal(t, int32(1), count.Load())
}

// ============================================================================
// 禁用
// ============================================================================

// TestGuard_Disabled 禁用时所有调用都被丢弃且不调度定时器
func TestGuard_Disabled(t *testing.T) {
	mock := clock.NewMock()
	var count int
	g := New(func(int) { count++ }, WithClock(mock), WithDisabled(true))
	defer g.Close()

	assert.True(t, g.Disabled())
	for i := 0; i < 3; i++ {
		assert.False(t, g.Invoke(i))
	}
	assert.Equal(t, 0, count)
	assert.False(t, g.Suppressing())
	assert.Nil(t, pendingTimer(g))

	g.SetDisabled(false)
	assert.False(t, g.Disabled())
	assert.True(t, g.Invoke(9))
	assert.Equal(t, 1, count)
}

// TestGuard_DisabledWhileSuppressing 冷却中禁用，窗口结束后仍保持禁用
func TestGuard_DisabledWhileSuppressing(t *testing.T) {
	mock := clock.NewMock()
	var count int
	g := New(func(int) { count++ }, WithClock(mock))
	defer g.Close()

	require.True(t, g.Invoke(1))
	g.SetDisabled(true)

	mock.Add(time.Second)
	waitReleased(t, g)
	assert.False(t, g.Invoke(2))
	assert.Equal(t, 1, count)
}

// ============================================================================
// 动作行为
// ============================================================================

// TestGuard_ActionPanic 动作 panic 被恢复，冷却照常开始
func TestGuard_ActionPanic(t *testing.T) {
	mock := clock.NewMock()
	g := New(func(int) { panic("boom") }, WithClock(mock))
	defer g.Close()

	assert.NotPanics(t, func() {
		assert.True(t, g.Invoke(1))
	})
	assert.True(t, g.Suppressing())
	assert.False(t, g.Invoke(2))

	mock.Add(time.Second)
	waitReleased(t, g)
}

// TestGuard_ReentrantInvoke 动作内再次调用同一守卫被丢弃
func TestGuard_ReentrantInvoke(t *testing.T) {
	mock := clock.NewMock()
	var inner bool
	var g *Guard[int]
	g = New(func(n int) {
		if n == 1 {
			inner = g.Invoke(2)
		}
	}, WithClock(mock))
	defer g.Close()

	assert.True(t, g.Invoke(1))
	assert.False(t, inner)
}

// TestGuard_NilAction 空动作也遵循冷却语义
func TestGuard_NilAction(t *testing.T) {
	g := NewAction(nil, WithClock(clock.NewMock()))
	defer g.Close()

	assert.True(t, g.Trigger())
	assert.False(t, g.Trigger())
}

// TestGuard_Func 受保护函数与原动作调用约定一致
func TestGuard_Func(t *testing.T) {
	mock := clock.NewMock()
	var got []string
	g := New(func(s string) { got = append(got, s) }, WithClock(mock))
	defer g.Close()

	onTap := g.Func()
	onTap("a")
	onTap("b")

	a := NewAction(func() { got = append(got, "nullary") }, WithClock(mock))
	defer a.Close()
	tap := a.TriggerFunc()
	tap()
	tap()

	assert.Equal(t, []string{"a", "nullary"}, got)
}

// TestGuard_Name 未指定名称时生成默认名称
func TestGuard_Name(t *testing.T) {
	g := New(func(int) {}, WithName("open-event"))
	defer g.Close()
	assert.Equal(t, "open-event", g.Name())

	g2 := New(func(int) {})
	defer g2.Close()
	assert.Contains(t, g2.Name(), "guard-")
}

// ============================================================================
// 并发
// ============================================================================

// TestGuard_ConcurrentInvoke 并发调用只有一次被接受
func TestGuard_ConcurrentInvoke(t *testing.T) {
	mock := clock.NewMock()
	var count atomic.Int32
	g := New(func(int) { count.Add(1) }, WithClock(mock))
	defer g.Close()

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if g.Invoke(n) {
				accepted.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(1), count.Load())
}
