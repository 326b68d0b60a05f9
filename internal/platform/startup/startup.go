package startup

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SlpAus/what-beats-backend/internal/comparison"
	"github.com/SlpAus/what-beats-backend/internal/frequency"
	"github.com/SlpAus/what-beats-backend/internal/game"
	"github.com/SlpAus/what-beats-backend/internal/report"
)

// MigrateModels 执行所有领域模型的数据库迁移。
func MigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&comparison.Comparison{},
		&game.Session{},
		&game.HighScore{},
		&report.Report{},
		&frequency.Band{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	fmt.Println("数据库迁移完成。")
	return nil
}

// SeedData 播种默认数据并预热缓存。
func SeedData(annotator *frequency.Annotator) error {
	if err := annotator.SeedDefaults(); err != nil {
		return fmt.Errorf("播种默认数据失败: %w", err)
	}
	return nil
}
