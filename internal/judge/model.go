package judge

import (
	"context"
	"fmt"
)

// Judgment 是裁判对一次对决的完整裁决。
type Judgment struct {
	// Result 为true表示挑战方（用户输入）击败当前物品
	Result      bool   `json:"result"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// BandDescription 是裁判为一个使用频率区间生成的展示文案。
type BandDescription struct {
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// Client 是游戏核心消费的裁判接口。
// 两个方法都是"全函数"：任何解析或传输层面的失败都会在实现内部
// 被兜底为保守的默认裁决，游戏回合永远不会因为裁判抖动而卡住。
type Client interface {
	Judge(ctx context.Context, item1, item2 string) Judgment
	FrequencyBand(ctx context.Context, rangeStart int, rangeEnd *int) BandDescription
}

// ParseError 表示裁判的回复经过全部修复策略后仍无法解析。
type ParseError struct {
	Content string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("无法从裁判回复中解析出结构化结果: %q", e.Content)
}

// 解析失败与传输失败的保守默认值。
// 两者使用不同的emoji，便于在前端和日志中区分失败来源。
var (
	defaultParseFailure = Judgment{
		Result:      false,
		Description: "could not determine the outcome",
		Emoji:       "❓",
	}
	defaultTransportFailure = Judgment{
		Result:      false,
		Description: "error communicating with the judgment system",
		Emoji:       "❌",
	}
	defaultBand = BandDescription{
		Description: "this comparison is getting popular",
		Emoji:       "🔄",
	}
)
