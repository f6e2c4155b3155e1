// Package interfaces 定义 alumnet 的公共接口
//
// 一个接口文件对应一个实现目录：
//   - eventbus.go  - 事件总线（internal/core/eventbus）
//   - guard.go     - 动作防抖守卫（internal/core/guard）
//
// 接口层只依赖 pkg/types，不依赖任何 internal 包。
package interfaces
