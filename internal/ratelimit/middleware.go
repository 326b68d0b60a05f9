package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SlpAus/what-beats-backend/internal/platform/database"
)

const (
	keyPrefix = "ratelimit:submit:"
	window    = time.Minute
	maxHits   = 30
)

// Limiter 基于Redis滑动窗口限制同一IP的提交频率。
// Redis不可用时自动放行，限流是保护层而不是功能依赖。
type Limiter struct {
	rdb *redis.Client
}

// NewLimiter 构造限流器，rdb可以为nil。
func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

// Middleware 返回施加在提交接口上的gin中间件。
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rdb == nil || !database.IsRedisHealthy() {
			c.Next()
			return
		}

		allowed, err := l.allow(c, c.ClientIP())
		if err != nil {
			// 限流本身出错时放行并标记Redis异常，由健康检查负责恢复
			fmt.Printf("限流检查失败: %v\n", err)
			database.MarkRedisHealthy(false)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many submissions, please slow down",
			})
			return
		}
		c.Next()
	}
}

// allow 在滑动窗口内统计该IP的请求数。
func (l *Limiter) allow(c *gin.Context, ip string) (bool, error) {
	ctx := c.Request.Context()
	key := keyPrefix + ip
	now := time.Now()
	windowStart := now.Add(-window)

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
	})
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("执行限流管道失败: %w", err)
	}
	return countCmd.Val() < maxHits, nil
}
