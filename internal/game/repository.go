package game

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository 封装会话和成绩快照的数据库访问。
type Repository struct {
	db *gorm.DB
}

// NewRepository 构造游戏仓库。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSession 写入一个新会话。
func (r *Repository) CreateSession(s *Session) error {
	if err := r.db.Create(s).Error; err != nil {
		return fmt.Errorf("创建游戏会话失败: %w", err)
	}
	return nil
}

// GetSession 按会话ID查找，不存在时返回ErrSessionNotFound。
func (r *Repository) GetSession(sessionID string) (*Session, error) {
	var s Session
	err := r.db.Where("session_id = ?", sessionID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("查询游戏会话失败: %w", err)
	}
	return &s, nil
}

// SaveSession 保存会话状态的修改。
func (r *Repository) SaveSession(s *Session) error {
	if err := r.db.Save(s).Error; err != nil {
		return fmt.Errorf("更新游戏会话失败: %w", err)
	}
	return nil
}

// SaveHighScore 幂等地写入一局的成绩快照。
// 同一会话的快照只会存在一份，重复调用不做任何事。
func (r *Repository) SaveHighScore(hs *HighScore) error {
	var existing HighScore
	err := r.db.Where("session_id = ?", hs.SessionID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询成绩快照失败: %w", err)
	}
	if err := r.db.Create(hs).Error; err != nil {
		return fmt.Errorf("写入成绩快照失败: %w", err)
	}
	return nil
}

// TopHighScores 按分数倒序返回前limit条成绩。
func (r *Repository) TopHighScores(limit int) ([]HighScore, error) {
	var list []HighScore
	err := r.db.Order("score desc, created_at asc").Limit(limit).Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("查询高分榜失败: %w", err)
	}
	return list, nil
}

// ScoreboardQuery 是排行榜的分页、排序和过滤参数。
// 零值的过滤字段表示不过滤。
type ScoreboardQuery struct {
	Page     int
	PageSize int
	SortBy   string // "score" 或 "date"
	Order    string // "asc" 或 "desc"
	MinScore int
	MaxScore int
	From     time.Time
	To       time.Time
}

// QueryScoreboard 按参数返回一页成绩和符合条件的总条数。
func (r *Repository) QueryScoreboard(q ScoreboardQuery) ([]HighScore, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}

	column := "score"
	if q.SortBy == "date" {
		column = "created_at"
	}
	direction := "desc"
	if q.Order == "asc" {
		direction = "asc"
	}

	base := r.db.Model(&HighScore{})
	if q.MinScore > 0 {
		base = base.Where("score >= ?", q.MinScore)
	}
	if q.MaxScore > 0 {
		base = base.Where("score <= ?", q.MaxScore)
	}
	if !q.From.IsZero() {
		base = base.Where("created_at >= ?", q.From)
	}
	if !q.To.IsZero() {
		base = base.Where("created_at <= ?", q.To)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计排行榜失败: %w", err)
	}

	var list []HighScore
	err := base.Order(column + " " + direction).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询排行榜失败: %w", err)
	}
	return list, total, nil
}

// ScoreboardStats 是排行榜的汇总统计。
type ScoreboardStats struct {
	TotalGames   int64      `json:"total_games"`
	HighestScore int        `json:"highest_score"`
	AverageScore float64    `json:"average_score"`
	LatestGameAt *time.Time `json:"latest_game_at,omitempty"`
}

// SummarizeScoreboard 计算全部成绩快照的汇总统计。
func (r *Repository) SummarizeScoreboard() (*ScoreboardStats, error) {
	var stats ScoreboardStats
	err := r.db.Model(&HighScore{}).
		Select("COUNT(*) as total_games, COALESCE(MAX(score), 0) as highest_score, COALESCE(AVG(score), 0) as average_score").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("统计排行榜汇总失败: %w", err)
	}

	if stats.TotalGames > 0 {
		var latest HighScore
		err = r.db.Order("created_at desc").First(&latest).Error
		if err != nil {
			return nil, fmt.Errorf("查询最近成绩失败: %w", err)
		}
		at := latest.CreatedAt
		stats.LatestGameAt = &at
	}
	return &stats, nil
}
