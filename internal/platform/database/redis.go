package database

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/what-beats-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// Ctx 是一个全局的上下文，用于不与单个请求绑定的Redis操作
var Ctx = context.Background()

// NewRedisClient 初始化与Redis的连接，并返回一个可注入的客户端。
// 与SQLite一样，首次连接失败会退避重试；Redis在本项目中只承担缓存和限流，
// 因此连接失败不应阻止进程启动，调用方可以选择降级运行。
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(Ctx, 2*time.Second)
		_, err = rdb.Ping(pingCtx).Result()
		cancel()
		if err == nil {
			fmt.Println("Redis 连接成功！")
			MarkRedisHealthy(true)
			return rdb, nil
		}
		fmt.Printf("连接Redis失败 (第%d次): %v\n", attempt, err)
		time.Sleep(time.Duration(attempt) * connectBackoff)
	}

	return nil, fmt.Errorf("无法连接到Redis %s: %w", cfg.Address, err)
}
