package frequency

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SlpAus/what-beats-backend/internal/judge"
	"github.com/SlpAus/what-beats-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// bandCacheKey 是一个 Redis Hash 的键，用于缓存序列化后的频率区间文案。
	// Field: 区间下界 (range_start)
	// Value: judge.BandDescription 的JSON序列化字符串
	bandCacheKey = "band:cache"
	// bandCacheTTL 是整个缓存Hash的刷新周期
	bandCacheTTL = 24 * time.Hour
)

// Repository 封装了频率区间在SQLite中的持久化和在Redis中的只读缓存。
// rdb 可以为nil（Redis降级或测试环境），此时所有读写都落到SQLite。
type Repository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewRepository 构造一个频率区间仓库。
func NewRepository(db *gorm.DB, rdb *redis.Client) *Repository {
	return &Repository{db: db, rdb: rdb}
}

// FindForCount 查找包含给定计数值的持久化区间。
// 未找到时返回 (nil, nil)，这是正常情况而非错误。
func (r *Repository) FindForCount(count int) (*Band, error) {
	var band Band
	err := r.db.
		Where("range_start <= ? AND (range_end IS NULL OR range_end >= ?)", count, count).
		Order("range_start desc").
		First(&band).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询频率区间失败: %w", err)
	}
	return &band, nil
}

// Create 持久化一个新的频率区间。
// range_start 上有唯一索引：并发合成同一区间时，后到者读回先到者的记录。
func (r *Repository) Create(band *Band) error {
	if err := r.db.Create(band).Error; err != nil {
		var existing Band
		if lookupErr := r.db.Where("range_start = ?", band.RangeStart).First(&existing).Error; lookupErr == nil {
			*band = existing
			return nil
		}
		return fmt.Errorf("无法创建频率区间 (start=%d): %w", band.RangeStart, err)
	}
	return nil
}

// Count 返回已持久化的区间数量，用于启动时判断是否需要播种默认区间。
func (r *Repository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&Band{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("统计频率区间数量失败: %w", err)
	}
	return n, nil
}

// getCache 从Redis缓存中获取一个区间的文案。
// 缓存未命中或Redis不健康时返回 (nil, nil)。
func (r *Repository) getCache(rangeStart int) (*judge.BandDescription, error) {
	if r.rdb == nil || !database.IsRedisHealthy() {
		return nil, nil
	}

	result, err := r.rdb.HGet(database.Ctx, bandCacheKey, strconv.Itoa(rangeStart)).Result()
	if err == redis.Nil {
		return nil, nil // 缓存未命中，不是错误
	}
	if err != nil {
		return nil, err
	}

	var band judge.BandDescription
	if err := json.Unmarshal([]byte(result), &band); err != nil {
		return nil, err
	}
	return &band, nil
}

// setCache 将一个区间的文案写入Redis缓存。写入失败只影响性能，不影响正确性。
func (r *Repository) setCache(rangeStart int, band judge.BandDescription) error {
	if r.rdb == nil || !database.IsRedisHealthy() {
		return nil
	}

	data, err := json.Marshal(band)
	if err != nil {
		return err
	}

	pipe := r.rdb.Pipeline()
	pipe.HSet(database.Ctx, bandCacheKey, strconv.Itoa(rangeStart), data)
	pipe.Expire(database.Ctx, bandCacheKey, bandCacheTTL)
	_, err = pipe.Exec(database.Ctx)
	return err
}

// WarmupCache 把SQLite中的全部区间预热到Redis。
// 在启动和Redis恢复健康后调用。
func (r *Repository) WarmupCache() error {
	if r.rdb == nil || !database.IsRedisHealthy() {
		return nil
	}

	var bands []Band
	if err := r.db.Find(&bands).Error; err != nil {
		return fmt.Errorf("无法从SQLite读取频率区间: %w", err)
	}
	if len(bands) == 0 {
		return nil
	}

	pipe := r.rdb.Pipeline()
	pipe.Del(database.Ctx, bandCacheKey)
	for _, b := range bands {
		data, err := json.Marshal(judge.BandDescription{Description: b.Description, Emoji: b.Emoji})
		if err != nil {
			continue
		}
		pipe.HSet(database.Ctx, bandCacheKey, strconv.Itoa(b.RangeStart), data)
	}
	pipe.Expire(database.Ctx, bandCacheKey, bandCacheTTL)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热频率区间缓存失败: %w", err)
	}

	fmt.Printf("成功预热 %d 个频率区间到Redis。\n", len(bands))
	return nil
}
