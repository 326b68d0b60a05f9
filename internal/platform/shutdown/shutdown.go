package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/what-beats-backend/pkg/lifecycle"
)

const (
	httpDrainTimeout    = 10 * time.Second
	serviceDrainTimeout = 10 * time.Second
)

// Coordinator 负责整个进程的两阶段优雅停机：
// 先停止接收新请求并排空HTTP连接，再通知后台服务退出并等待它们完成。
type Coordinator struct {
	manager *lifecycle.Manager
	server  *http.Server
}

// NewCoordinator 构造停机协调器。
func NewCoordinator(manager *lifecycle.Manager, server *http.Server) *Coordinator {
	return &Coordinator{manager: manager, server: server}
}

// WaitForSignal 阻塞直到收到SIGINT或SIGTERM，然后执行停机流程。
func (c *Coordinator) WaitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	fmt.Printf("收到信号 %v，开始优雅停机...\n", sig)
	c.Shutdown()
}

// Shutdown 执行两阶段停机。
func (c *Coordinator) Shutdown() {
	// 阶段一：排空HTTP
	ctx, cancel := context.WithTimeout(context.Background(), httpDrainTimeout)
	defer cancel()
	if err := c.server.Shutdown(ctx); err != nil {
		fmt.Printf("HTTP服务器停机出错: %v\n", err)
	} else {
		fmt.Println("HTTP服务器已停止接收请求。")
	}

	// 阶段二：通知后台服务退出
	c.manager.Shutdown()
	if remaining := c.manager.WaitWithTimeout(serviceDrainTimeout); len(remaining) > 0 {
		fmt.Printf("以下后台服务未能在超时前退出: %v\n", remaining)
	} else {
		fmt.Println("所有后台服务已退出。")
	}
	fmt.Println("停机完成。")
}
