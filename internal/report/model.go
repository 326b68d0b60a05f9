package report

import "gorm.io/gorm"

// 举报状态机：pending可以进入任意后续状态，
// reviewed只能进入approved或rejected，approved和rejected是终态。
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Report 是玩家对一次裁定结果的申诉记录。
type Report struct {
	gorm.Model
	ReportID  string `gorm:"size:64;not null;uniqueIndex"`
	SessionID string `gorm:"size:64;not null;index"`
	// ComparisonID 关联被举报的缓存记录，提交时缓存尚不存在则为nil
	ComparisonID *uint  `gorm:"index"`
	Item1        string `gorm:"size:50;not null"`
	Item2        string `gorm:"size:50;not null"`
	Reason       string `gorm:"size:500;not null"`
	Status       string `gorm:"size:16;not null;default:'pending';index"`
}

// allowedTransitions 描述每个状态允许进入的下一个状态。
var allowedTransitions = map[string][]string{
	StatusPending:  {StatusReviewed, StatusApproved, StatusRejected},
	StatusReviewed: {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// canTransition 判断状态迁移是否合法，相同状态视为合法的空操作。
func canTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// isKnownStatus 判断状态值是否在状态机之内。
func isKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}
