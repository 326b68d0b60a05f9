package frequency

import "gorm.io/gorm"

// Band 定义了一个使用频率区间在SQLite中的持久化模型。
// 区间左闭右闭；RangeEnd 为 nil 表示向上开放。
// 全部区间共同覆盖正整数域，不允许出现空洞。
type Band struct {
	gorm.Model

	// RangeStart 是区间下界，也是业务上的唯一键
	RangeStart int `gorm:"uniqueIndex;not null" json:"range_start"`

	// RangeEnd 是区间上界，nil表示开放区间
	RangeEnd *int `json:"range_end"`

	// Description 是该频率区间的展示文案
	Description string `json:"description"`

	// Emoji 是该频率区间的展示emoji
	Emoji string `json:"emoji"`
}

// DetermineRange 计算一个计数值所属的频率区间。
// 规则固定：1 -> [1,1]；2..5 -> [2,5]；6..10 -> [6,10]；
// 大于10的按十位对齐，例如 [10,19]、[20,29]。
func DetermineRange(count int) (rangeStart int, rangeEnd *int) {
	end := func(v int) *int { return &v }
	switch {
	case count <= 1:
		return 1, end(1)
	case count <= 5:
		return 2, end(5)
	case count <= 10:
		return 6, end(10)
	default:
		start := (count / 10) * 10
		return start, end(start + 9)
	}
}
