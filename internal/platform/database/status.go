package database

import (
	"fmt"
	"sync"
)

// statusManager 负责线程安全地管理和提供Redis的健康状态。
// Redis在本项目中是纯缓存层，降级后核心玩法仍然可用，
// 但频率带缓存和IP限流会退回到SQLite/放行模式。
type statusManager struct {
	mu             sync.RWMutex
	isRedisHealthy bool
}

// 全局的状态管理器实例
var globalStatus = &statusManager{}

// IsRedisHealthy 返回当前Redis的健康状态。
func IsRedisHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isRedisHealthy
}

// MarkRedisHealthy 用于线程安全地更新健康状态。
// 只有当状态发生变化时才打印日志。
func MarkRedisHealthy(isHealthy bool) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	if globalStatus.isRedisHealthy == isHealthy {
		return
	}
	globalStatus.isRedisHealthy = isHealthy
	if isHealthy {
		fmt.Println("健康检查: Redis服务状态已更新为 [可用]")
	} else {
		fmt.Println("健康检查警告: Redis服务状态已更新为 [不可用]")
	}
}
