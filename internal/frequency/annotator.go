package frequency

import (
	"context"
	"fmt"

	"github.com/SlpAus/what-beats-backend/internal/judge"
)

// Annotator 负责把一次对决的使用计数映射为展示用的频率文案。
// 常见区间在启动时播种，冷门区间由裁判懒生成后持久化。
type Annotator struct {
	repo  *Repository
	judge judge.Client
}

// NewAnnotator 构造一个频率标注器。
func NewAnnotator(repo *Repository, judgeClient judge.Client) *Annotator {
	return &Annotator{repo: repo, judge: judgeClient}
}

// BandFor 返回包含count的区间文案。
// 这是一个"全函数"：存储或裁判失败都会被兜底为通用文案，
// 频率文案永远不会让一个游戏回合失败。
func (a *Annotator) BandFor(ctx context.Context, count int) judge.BandDescription {
	rangeStart, rangeEnd := DetermineRange(count)

	// 1. Redis缓存
	if cached, err := a.repo.getCache(rangeStart); err == nil && cached != nil {
		return *cached
	}

	// 2. SQLite持久层
	band, err := a.repo.FindForCount(count)
	if err != nil {
		fmt.Printf("读取频率区间时出错 (count=%d): %v\n", count, err)
		return judge.BandDescription{Description: "this comparison is getting popular", Emoji: "🔄"}
	}
	if band != nil {
		desc := judge.BandDescription{Description: band.Description, Emoji: band.Emoji}
		_ = a.repo.setCache(band.RangeStart, desc)
		return desc
	}

	// 3. 冷门区间：由裁判生成文案并持久化，之后的请求直接命中
	generated := a.judge.FrequencyBand(ctx, rangeStart, rangeEnd)
	newBand := &Band{
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
		Description: generated.Description,
		Emoji:       generated.Emoji,
	}
	if err := a.repo.Create(newBand); err != nil {
		// 持久化失败只影响下次请求，本次仍返回生成的文案
		fmt.Printf("持久化频率区间失败 (start=%d): %v\n", rangeStart, err)
		return generated
	}

	desc := judge.BandDescription{Description: newBand.Description, Emoji: newBand.Emoji}
	_ = a.repo.setCache(newBand.RangeStart, desc)
	return desc
}

// defaultBands 是为低频区间准备的默认文案。
// 播种它们可以让绝大多数回合完全不触发裁判调用。
var defaultBands = []Band{
	{RangeStart: 1, RangeEnd: intPtr(1), Description: "First time seeing this comparison!", Emoji: "🆕"},
	{RangeStart: 2, RangeEnd: intPtr(5), Description: "This comparison is gaining popularity!", Emoji: "📈"},
	{RangeStart: 6, RangeEnd: intPtr(10), Description: "A frequent matchup in the game!", Emoji: "🔄"},
	{RangeStart: 10, RangeEnd: intPtr(19), Description: "This comparison is becoming a classic!", Emoji: "⭐"},
	{RangeStart: 20, RangeEnd: intPtr(29), Description: "A very popular comparison!", Emoji: "🔥"},
}

// SeedDefaults 在区间表为空时写入默认区间，随后预热缓存。
func (a *Annotator) SeedDefaults() error {
	n, err := a.repo.Count()
	if err != nil {
		return err
	}
	if n == 0 {
		for i := range defaultBands {
			band := defaultBands[i]
			if err := a.repo.Create(&band); err != nil {
				return err
			}
		}
		fmt.Printf("已播种 %d 个默认频率区间。\n", len(defaultBands))
	}
	return a.repo.WarmupCache()
}

func intPtr(v int) *int {
	return &v
}
