package game

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Session 是一局游戏的持久化状态。
// previous_items以JSON数组形式存储，读写经过Items/SetItems转换。
type Session struct {
	gorm.Model
	SessionID     string `gorm:"size:64;not null;uniqueIndex"`
	OwnerID       string `gorm:"size:64"`
	CurrentItem   string `gorm:"size:50;not null"`
	PreviousItems string `gorm:"type:text;not null;default:'[]'"`
	Score         int    `gorm:"not null;default:0"`
	IsActive      bool   `gorm:"not null;default:true"`
}

// Items 解码历史物品链。
func (s *Session) Items() []string {
	var items []string
	if err := json.Unmarshal([]byte(s.PreviousItems), &items); err != nil {
		return []string{}
	}
	return items
}

// SetItems 编码历史物品链。
func (s *Session) SetItems(items []string) {
	data, err := json.Marshal(items)
	if err != nil {
		s.PreviousItems = "[]"
		return
	}
	s.PreviousItems = string(data)
}

// HighScore 是一局结束时的成绩快照，与会话一一对应。
type HighScore struct {
	gorm.Model
	SessionID  string `gorm:"size:64;not null;uniqueIndex"`
	Score      int    `gorm:"not null;index"`
	ItemsChain string `gorm:"type:text;not null;default:'[]'"`
}

// Chain 解码成绩对应的物品链。
func (h *HighScore) Chain() []string {
	var items []string
	if err := json.Unmarshal([]byte(h.ItemsChain), &items); err != nil {
		return []string{}
	}
	return items
}

// SetChain 编码成绩对应的物品链。
func (h *HighScore) SetChain(items []string) {
	data, err := json.Marshal(items)
	if err != nil {
		h.ItemsChain = "[]"
		return
	}
	h.ItemsChain = string(data)
}

// AchievedAt 返回成绩产生的时间。
func (h *HighScore) AchievedAt() time.Time {
	return h.CreatedAt
}
