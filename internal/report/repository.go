package report

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrReportNotFound 表示举报ID不存在。
var ErrReportNotFound = errors.New("report not found")

// Repository 封装举报记录的数据库访问。
type Repository struct {
	db *gorm.DB
}

// NewRepository 构造举报仓库。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 写入一条举报。
func (r *Repository) Create(rep *Report) error {
	if err := r.db.Create(rep).Error; err != nil {
		return fmt.Errorf("创建举报记录失败: %w", err)
	}
	return nil
}

// Get 按举报ID查找，不存在时返回ErrReportNotFound。
func (r *Repository) Get(reportID string) (*Report, error) {
	var rep Report
	err := r.db.Where("report_id = ?", reportID).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("查询举报记录失败: %w", err)
	}
	return &rep, nil
}

// List 按可选状态过滤，按创建时间倒序分页返回举报列表和总条数。
func (r *Repository) List(status string, page, pageSize int) ([]Report, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	base := r.db.Model(&Report{})
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计举报数量失败: %w", err)
	}

	var list []Report
	err := base.Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询举报列表失败: %w", err)
	}
	return list, total, nil
}

// Save 保存举报状态的修改。
func (r *Repository) Save(rep *Report) error {
	if err := r.db.Save(rep).Error; err != nil {
		return fmt.Errorf("更新举报记录失败: %w", err)
	}
	return nil
}
