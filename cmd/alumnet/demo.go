package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alumnet/go-alumnet"
	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/types"
)

// errQuit 用户请求退出
var errQuit = errors.New("quit")

// demo 演示用的协作方：收藏角标、两个标签页刷新器和一个受保护的点击动作
type demo struct {
	rt  *alumnet.Runtime
	out io.Writer
	now func() time.Time

	mu     sync.Mutex
	saved  map[string]bool
	opened int

	open         interfaces.ActionGuard
	unsubscribes []func()
}

// newDemo 创建协作方并订阅事件
func newDemo(rt *alumnet.Runtime, out io.Writer) *demo {
	d := &demo{
		rt:    rt,
		out:   out,
		now:   time.Now,
		saved: make(map[string]bool),
	}

	bus := rt.Bus()
	d.unsubscribes = append(d.unsubscribes,
		alumnet.Subscribe(bus, types.ForumBookmarkChanged, alumnet.Func(d.onBookmark)),
		alumnet.SubscribeFunc(bus, types.TabHomeRefresh, d.refresher("home")),
		alumnet.SubscribeFunc(bus, types.TabDiscoverRefresh, d.refresher("discover")),
	)
	d.open = alumnet.NewAction(rt, d.openDetail, alumnet.GuardName("tap"))
	return d
}

// Close 取消订阅并销毁守卫
func (d *demo) Close() {
	for _, unsubscribe := range d.unsubscribes {
		unsubscribe()
	}
	_ = d.open.Close()
}

// ═══════════════════════════════════════════════════════════════════════════
// 事件处理
// ═══════════════════════════════════════════════════════════════════════════

func (d *demo) onBookmark(p types.BookmarkChanged) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p.Saved {
		d.saved[p.DiscussionID] = true
	} else {
		delete(d.saved, p.DiscussionID)
	}
	fmt.Fprintf(d.out, "[badge] %s saved=%t, %d saved\n", p.DiscussionID, p.Saved, len(d.saved))
}

func (d *demo) refresher(tab string) func(types.TabRefresh) {
	return func(p types.TabRefresh) {
		d.mu.Lock()
		defer d.mu.Unlock()
		fmt.Fprintf(d.out, "[%s] refreshed at %s\n", tab, p.Time().Format(time.RFC3339))
	}
}

func (d *demo) openDetail() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened++
	fmt.Fprintf(d.out, "[tap] detail opened (%d)\n", d.opened)
}

// ═══════════════════════════════════════════════════════════════════════════
// 命令
// ═══════════════════════════════════════════════════════════════════════════

// Serve 逐行读取命令直到输入结束、quit 或 ctx 取消
func (d *demo) Serve(ctx context.Context, r io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := d.Exec(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(d.out, "错误: %v\n", err)
			}
		}
	}
}

// Exec 执行一条命令
func (d *demo) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	bus := d.rt.Bus()
	switch fields[0] {
	case "bookmark":
		if len(fields) != 3 {
			return errors.New("用法: bookmark <discussionId> <true|false>")
		}
		saved, err := strconv.ParseBool(fields[2])
		if err != nil {
			return fmt.Errorf("saved 必须是 true 或 false: %w", err)
		}
		alumnet.Emit(bus, types.ForumBookmarkChanged, types.BookmarkChanged{DiscussionID: fields[1], Saved: saved})
	case "home":
		alumnet.Emit(bus, types.TabHomeRefresh, types.NewTabRefresh(d.now()))
	case "discover":
		alumnet.Emit(bus, types.TabDiscoverRefresh, types.NewTabRefresh(d.now()))
	case "tap":
		if !d.open.Trigger() {
			fmt.Fprintln(d.out, "[tap] ignored")
		}
	case "status":
		d.printStatus()
	case "help":
		fmt.Fprintln(d.out, "命令: bookmark <id> <true|false> | home | discover | tap | status | quit")
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("未知命令 %q", fields[0])
	}
	return nil
}

func (d *demo) printStatus() {
	bus := d.rt.Bus()
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range bus.Events() {
		fmt.Fprintf(d.out, "%-24s %d\n", name, bus.Subscribers(name))
	}
	fmt.Fprintf(d.out, "guards: %d active, cooldown %s\n", d.rt.Guards().Active(), d.rt.Guards().Cooldown())
}
