// Package alumnet 提供校友应用的进程内通知核心
//
// 两个互不依赖的组件：
//
//   - EventBus: 同步、按注册顺序投递的事件总线，用于跨页面的状态通知
//     （收藏变化、标签页刷新）
//   - Guard: 动作守卫，在冷却窗口内只放行第一次用户触发的动作
//
// # 快速开始
//
//	import "github.com/alumnet/go-alumnet"
//
//	rt, err := alumnet.New(alumnet.WithGuardCooldown(300 * time.Millisecond))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	// 订阅收藏变化
//	badge := alumnet.Func(func(p types.BookmarkChanged) {
//	    updateBadge(p.DiscussionID, p.Saved)
//	})
//	unsubscribe := alumnet.Subscribe(rt.Bus(), types.ForumBookmarkChanged, badge)
//	defer unsubscribe()
//
//	// 发射事件
//	alumnet.Emit(rt.Bus(), types.ForumBookmarkChanged,
//	    types.BookmarkChanged{DiscussionID: "d1", Saved: true})
//
//	// 防止重复点击
//	open := alumnet.NewAction(rt, func() { nav.Push("/events/42") })
//	button.OnTap(func() { open.Trigger() })
//
// # 事件
//
// 事件集合是封闭的，只能通过 pkg/types 中预定义的 Topic 订阅与发射：
//
//	forum:bookmarkChanged  types.BookmarkChanged{DiscussionID, Saved}
//	tab:homeRefresh        types.TabRefresh{Timestamp}
//	tab:discoverRefresh    types.TabRefresh{Timestamp}
//
// 处理器失败（返回错误或 panic）会被记录并吞掉，不影响同一次发射中的其他处理器。
// 通过 WithErrorObserver 可以接收失败通知。
//
// # 生命周期
//
// New 之后总线与守卫即可使用；Start/Stop 驱动 Fx 生命周期钩子，
// Close 销毁所有通过运行时创建的守卫，取消挂起的冷却定时器。
//
// # 文件组织
//
//	alumnet.go  - 版本信息
//	runtime.go  - Runtime 门面
//	options.go  - 配置选项
//	events.go   - 类型化事件入口
//	guards.go   - 守卫入口
//	fx.go       - Fx 模块组装
//	errors.go   - 错误定义
package alumnet
