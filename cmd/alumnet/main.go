// Package main 提供 alumnet 演示与调试入口
//
// 从标准输入读取命令驱动事件总线与动作守卫：
//
//	bookmark <discussionId> <true|false>  发射 forum:bookmarkChanged
//	home                                  发射 tab:homeRefresh
//	discover                              发射 tab:discoverRefresh
//	tap                                   经守卫打开详情页（冷却内重复点击被丢弃）
//	status                                显示订阅与守卫状态
//	quit                                  退出
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alumnet/go-alumnet"
	"github.com/alumnet/go-alumnet/pkg/lib/log"
)

var logger = log.Logger("alumnet/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径")
	cooldown    = flag.Duration("cooldown", 0, "守卫冷却时间（0 = 使用配置文件或默认 500ms）")
	debugAddr   = flag.String("debug-addr", "", "调试 HTTP 监听地址，如 127.0.0.1:6060（空 = 不启用）")
	fxDebug     = flag.Bool("fx-debug", false, "输出 Fx 依赖注入事件")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

// shutdownTimeout 调试服务关闭超时
const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(alumnet.VersionInfo())
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := alumnet.Start(ctx, buildOptions()...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = rt.Close() }()

	logger.Info("启动 alumnet", "version", alumnet.Version, "commit", alumnet.GitCommit)

	d := newDemo(rt, os.Stdout)
	defer d.Close()

	if *debugAddr != "" {
		srv := &http.Server{
			Addr:              *debugAddr,
			Handler:           newDebugRouter(rt),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("调试服务异常退出", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		fmt.Printf("调试服务: http://%s/debug/events\n", *debugAddr)
	}

	fmt.Println("输入 help 查看命令，Ctrl+C 或 quit 退出")
	return d.Serve(ctx, os.Stdin)
}

// buildOptions 构建选项
//
// 配置优先级：命令行参数 > 配置文件 > 默认值
func buildOptions() []alumnet.Option {
	var opts []alumnet.Option
	if *configFile != "" {
		opts = append(opts, alumnet.WithConfigFile(*configFile))
	}
	if *cooldown > 0 {
		opts = append(opts, alumnet.WithGuardCooldown(*cooldown))
	}
	if *fxDebug {
		opts = append(opts, alumnet.WithFxDebug())
	}
	return opts
}
