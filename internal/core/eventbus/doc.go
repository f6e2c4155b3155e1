// Package eventbus 实现进程内事件总线
//
// 提供封闭事件集合上的同步发布/订阅：
//   - 按注册顺序同步投递，Emit 返回前所有处理器均已执行
//   - 故障隔离：处理器返回错误或 panic 只会被记录，不影响其他处理器
//   - 同一处理器引用对同一事件只注册一次
//   - 取消订阅幂等
//   - 无通配符、无优先级、不回放历史事件
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	// 订阅（类型化，载荷类型在编译期检查）
//	badge := eventbus.Func(func(e types.BookmarkChanged) {
//	    // 更新角标
//	})
//	unsubscribe := eventbus.Subscribe(bus, types.ForumBookmarkChanged, badge)
//	defer unsubscribe()
//
//	// 发射
//	eventbus.Emit(bus, types.ForumBookmarkChanged, types.BookmarkChanged{
//	    DiscussionID: "d1",
//	    Saved:        true,
//	})
//
// # 处理器身份
//
// 处理器的动态值可比较（指针、可比较结构体）时，按值判断身份：重复订阅
// 返回已有注册的取消函数，Unsubscribe 可按处理器移除。Func 返回的是指针，
// 保存该引用即可重复使用。裸 HandlerFunc 不可比较，每次订阅都是独立注册，
// 只能通过返回的取消函数移除。
//
// # 分发期间的修改
//
// Emit 对处理器列表做快照后释放锁再调用处理器，因此处理器内可以订阅、
// 取消订阅或再次 Emit：
//   - 分发期间新增的处理器不会收到本次事件
//   - 分发期间被移除且尚未执行的处理器在本次分发中被跳过
//
// # Fx 模块
//
//	app := fx.New(
//	    eventbus.Module(),
//	    fx.Invoke(func(bus interfaces.EventBus) {
//	        eventbus.Subscribe(bus, types.TabHomeRefresh, home)
//	    }),
//	)
//
// # 架构定位
//
// Tier: Core Layer Level 1
//
// 依赖关系：
//   - 依赖：pkg/types, pkg/interfaces, internal/core/metrics
//   - 被依赖：alumnet 根包, cmd/alumnet
//
// # 并发安全
//
// 注册表由 sync.RWMutex 保护，注册的激活状态使用 atomic.Bool；
// 处理器总是在 Emit 调用方的 goroutine 上执行。
package eventbus
