// Package types 定义 alumnet 公共类型
//
// 核心是事件模式（event schema）：一个封闭的事件名集合，每个事件名绑定
// 固定的载荷类型。新增事件名属于模式变更，只能在本包中完成。
//
//   - EventName: 事件名（字符串字面量，如 "forum:bookmarkChanged"）
//   - Topic[T]: 事件名与载荷类型的绑定，订阅/发射时在编译期检查载荷类型
//   - BookmarkChanged / TabRefresh: 载荷结构
package types
