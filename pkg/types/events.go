package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ============================================================================
//                              事件名
// ============================================================================

// EventName 事件名
type EventName string

const (
	// EventForumBookmarkChanged 论坛讨论收藏状态变化
	EventForumBookmarkChanged EventName = "forum:bookmarkChanged"
	// EventTabHomeRefresh 首页标签请求刷新
	EventTabHomeRefresh EventName = "tab:homeRefresh"
	// EventTabDiscoverRefresh 发现页标签请求刷新
	EventTabDiscoverRefresh EventName = "tab:discoverRefresh"
)

// knownEvents 封闭事件集合，顺序即 AllEvents 的返回顺序
var knownEvents = []EventName{
	EventForumBookmarkChanged,
	EventTabHomeRefresh,
	EventTabDiscoverRefresh,
}

// String 返回事件名字符串
func (n EventName) String() string {
	return string(n)
}

// Known 判断事件名是否属于封闭集合
func (n EventName) Known() bool {
	for _, k := range knownEvents {
		if k == n {
			return true
		}
	}
	return false
}

// AllEvents 返回全部已知事件名
func AllEvents() []EventName {
	out := make([]EventName, len(knownEvents))
	copy(out, knownEvents)
	return out
}

// ============================================================================
//                              载荷
// ============================================================================

// BookmarkChanged forum:bookmarkChanged 的载荷
type BookmarkChanged struct {
	DiscussionID string `json:"discussionId"`
	Saved        bool   `json:"saved"`
}

// TabRefresh tab:homeRefresh / tab:discoverRefresh 的载荷
//
// Timestamp 为毫秒级 Unix 时间戳。
type TabRefresh struct {
	Timestamp int64 `json:"timestamp"`
}

// NewTabRefresh 用给定时间构造刷新载荷
func NewTabRefresh(t time.Time) TabRefresh {
	return TabRefresh{Timestamp: t.UnixMilli()}
}

// Time 返回刷新请求的时间
func (r TabRefresh) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// ============================================================================
//                              Topic
// ============================================================================

// Topic 绑定事件名与载荷类型
//
// Topic 只能由本包构造（name 未导出），外部包只能使用下面列出的预定义变量，
// 从而保证事件名集合在编译期封闭。零值 Topic 的 Name() 为空，不属于已知集合。
type Topic[T any] struct {
	name EventName
}

// Name 返回事件名
func (t Topic[T]) Name() EventName {
	return t.name
}

// String 返回事件名字符串
func (t Topic[T]) String() string {
	return string(t.name)
}

// 预定义 Topic
var (
	// ForumBookmarkChanged 收藏状态变化
	ForumBookmarkChanged = Topic[BookmarkChanged]{name: EventForumBookmarkChanged}
	// TabHomeRefresh 首页刷新
	TabHomeRefresh = Topic[TabRefresh]{name: EventTabHomeRefresh}
	// TabDiscoverRefresh 发现页刷新
	TabDiscoverRefresh = Topic[TabRefresh]{name: EventTabDiscoverRefresh}
)

// ============================================================================
//                              解码
// ============================================================================

// ErrUnknownEvent 事件名不在封闭集合内
var ErrUnknownEvent = errors.New("unknown event name")

// DecodePayload 按事件名把 JSON 解码为对应的载荷值
//
// 用于进程边界（调试接口、命令行），进程内调用方应直接使用 Topic。
func DecodePayload(name EventName, data []byte) (any, error) {
	switch name {
	case EventForumBookmarkChanged:
		var p BookmarkChanged
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", name, err)
		}
		if p.DiscussionID == "" {
			return nil, fmt.Errorf("decode %s payload: discussionId is required", name)
		}
		return p, nil
	case EventTabHomeRefresh, EventTabDiscoverRefresh:
		var p TabRefresh
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", name, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}
