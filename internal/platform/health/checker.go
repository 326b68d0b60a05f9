package health

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SlpAus/what-beats-backend/internal/frequency"
	"github.com/SlpAus/what-beats-backend/internal/platform/database"
	"github.com/SlpAus/what-beats-backend/pkg/lifecycle"
)

const (
	checkInterval = 15 * time.Second
	pingTimeout   = 2 * time.Second
)

// Checker 周期性探测Redis可用性，并在恢复时预热频率缓存。
type Checker struct {
	rdb   *redis.Client
	bands *frequency.Repository
}

// NewChecker 构造健康检查器，rdb可以为nil（此时检查器什么都不做）。
func NewChecker(rdb *redis.Client, bands *frequency.Repository) *Checker {
	return &Checker{rdb: rdb, bands: bands}
}

// Run 在后台循环中运行健康检查，直到生命周期句柄被取消。
func (c *Checker) Run(handle *lifecycle.Handle) {
	defer handle.Close()

	if c.rdb == nil {
		fmt.Println("健康检查: 未配置Redis，检查器退出。")
		return
	}

	for {
		if err := handle.Sleep(checkInterval); err != nil {
			fmt.Println("健康检查: 收到停机信号，检查器退出。")
			return
		}
		c.checkOnce(handle.Ctx())
	}
}

// checkOnce 执行一次探测，状态变化时更新全局标记。
func (c *Checker) checkOnce(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := c.rdb.Ping(pingCtx).Err()
	wasHealthy := database.IsRedisHealthy()

	if err != nil {
		database.MarkRedisHealthy(false)
		return
	}
	database.MarkRedisHealthy(true)

	// 从故障中恢复时重建频率缓存，避免长期打到SQLite
	if !wasHealthy {
		if warmErr := c.bands.WarmupCache(); warmErr != nil {
			fmt.Printf("健康检查: Redis恢复后预热缓存失败: %v\n", warmErr)
		}
	}
}
