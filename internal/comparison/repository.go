package comparison

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository 封装对决缓存表的所有数据库访问。
type Repository struct {
	db *gorm.DB
}

// NewRepository 构造对决缓存仓库。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get 按有序对查找缓存记录，未命中时返回 (nil, nil)。
func (r *Repository) Get(item1, item2 string) (*Comparison, error) {
	var cmp Comparison
	err := r.db.Where("item1 = ? AND item2 = ?", item1, item2).First(&cmp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询对决缓存失败: %w", err)
	}
	return &cmp, nil
}

// Create 写入一条新的对决记录。
func (r *Repository) Create(cmp *Comparison) error {
	if err := r.db.Create(cmp).Error; err != nil {
		return fmt.Errorf("创建对决记录失败: %w", err)
	}
	return nil
}

// Save 保存对一条已有记录的修改。
func (r *Repository) Save(cmp *Comparison) error {
	if err := r.db.Save(cmp).Error; err != nil {
		return fmt.Errorf("更新对决记录失败: %w", err)
	}
	return nil
}

// IncrementCount 原子地把记录的使用次数加一。
func (r *Repository) IncrementCount(id uint) error {
	err := r.db.Model(&Comparison{}).Where("id = ?", id).
		UpdateColumn("count", gorm.Expr("count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("累加对决次数失败: %w", err)
	}
	return nil
}

// TopByCount 按使用次数倒序返回最热门的若干条对决。
func (r *Repository) TopByCount(limit int) ([]Comparison, error) {
	var list []Comparison
	err := r.db.Order("count desc").Limit(limit).Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("查询热门对决失败: %w", err)
	}
	return list, nil
}

// Total 返回缓存中的对决记录总数。
func (r *Repository) Total() (int64, error) {
	var n int64
	if err := r.db.Model(&Comparison{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("统计对决记录失败: %w", err)
	}
	return n, nil
}
