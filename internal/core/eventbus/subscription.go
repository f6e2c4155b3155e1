package eventbus

import (
	"reflect"
	"sync/atomic"

	"github.com/alumnet/go-alumnet/pkg/interfaces"
	"github.com/alumnet/go-alumnet/pkg/types"
)

// ============================================================================
// registration 实现
// ============================================================================

// registration 一次处理器注册
type registration struct {
	id      string
	name    types.EventName
	handler interfaces.RawHandler

	// key 处理器身份，不可比较的处理器为 nil
	key any

	active atomic.Bool
}

// identityOf 返回处理器的身份键
//
// 只有动态值可比较时才能参与去重，否则比较会 panic。
func identityOf(h interfaces.RawHandler) any {
	if reflect.ValueOf(h).Comparable() {
		return h
	}
	return nil
}

// matches 判断是否为同一处理器的有效注册
//
// 已失效（正在移除）的注册不参与匹配。
func (r *registration) matches(key any) bool {
	return r.key != nil && key != nil && r.active.Load() && r.key == key
}
