package comparison

import "gorm.io/gorm"

// Comparison 记录一个有序对决 (item1, item2) 的裁定结果和使用次数。
// (a, b) 和 (b, a) 是两条独立的记录。
type Comparison struct {
	gorm.Model
	Item1       string `gorm:"size:50;not null;uniqueIndex:idx_comparison_pair"`
	Item2       string `gorm:"size:50;not null;uniqueIndex:idx_comparison_pair"`
	Item1Wins   bool   `gorm:"not null"`
	Item2Wins   bool   `gorm:"not null"`
	Description string `gorm:"not null"`
	Emoji       string `gorm:"not null"`
	Count       int    `gorm:"not null;default:0"`
}
