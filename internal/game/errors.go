package game

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound 表示会话ID不存在。
var ErrSessionNotFound = errors.New("game session not found")

// ErrSessionInactive 表示会话已结束，不能再提交对决。
var ErrSessionInactive = errors.New("game session is no longer active")

// ErrNotSessionOwner 表示请求方不是会话的绑定玩家。
var ErrNotSessionOwner = errors.New("session belongs to another player")

// ItemAlreadyUsedError 表示提交的物品在本局中已经出现过。
// Reason区分是与当前物品重复（"current"）还是与历史链重复（"used"）。
type ItemAlreadyUsedError struct {
	Item   string
	Reason string
}

func (e *ItemAlreadyUsedError) Error() string {
	if e.Reason == "current" {
		return fmt.Sprintf("%q is the current item and cannot beat itself", e.Item)
	}
	return fmt.Sprintf("%q has already been used in this game", e.Item)
}
