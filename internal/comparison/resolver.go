package comparison

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/SlpAus/what-beats-backend/internal/frequency"
	"github.com/SlpAus/what-beats-backend/internal/judge"
	"github.com/SlpAus/what-beats-backend/internal/oracle"
)

const maxItemLength = 50

var itemPattern = regexp.MustCompile(`^[a-z0-9\s.,!?'-]+$`)

// InputValidationError 表示玩家提交的物品不符合输入规则。
type InputValidationError struct {
	Reason string
}

func (e *InputValidationError) Error() string {
	return e.Reason
}

// NormalizeItem 对玩家输入做规范化和校验，返回小写去空格后的物品名。
func NormalizeItem(raw string) (string, error) {
	item := strings.ToLower(strings.TrimSpace(raw))
	if item == "" {
		return "", &InputValidationError{Reason: "item cannot be empty"}
	}
	if len(item) > maxItemLength {
		return "", &InputValidationError{Reason: fmt.Sprintf("item cannot exceed %d characters", maxItemLength)}
	}
	if !itemPattern.MatchString(item) {
		return "", &InputValidationError{Reason: "item contains invalid characters"}
	}
	return item, nil
}

// Outcome 是一次对决裁定的完整结果，包含频率文案。
type Outcome struct {
	Result          bool
	Description     string
	Emoji           string
	Count           int
	BandDescription string
	BandEmoji       string
}

// Resolver 实现三层裁定流水线：先验规则 -> 持久缓存 -> 外部裁判。
type Resolver struct {
	repo      *Repository
	oracle    *oracle.Oracle
	judge     judge.Client
	annotator *frequency.Annotator
}

// NewResolver 构造对决裁定器。
func NewResolver(repo *Repository, oc *oracle.Oracle, judgeClient judge.Client, annotator *frequency.Annotator) *Resolver {
	return &Resolver{repo: repo, oracle: oc, judge: judgeClient, annotator: annotator}
}

// Resolve 裁定"item2能否击败item1"，并维护缓存计数。
// item1和item2必须已经过NormalizeItem处理。
func (r *Resolver) Resolve(ctx context.Context, item1, item2 string) (*Outcome, error) {
	verdict := r.oracle.Lookup(item1, item2)

	cached, err := r.repo.Get(item1, item2)
	if err != nil {
		return nil, err
	}

	if cached != nil {
		// 先验规则与缓存不一致时，以规则为准原地纠正，保留原有文案
		if corrected := r.correctAgainstOracle(cached, verdict); corrected {
			if err := r.repo.Save(cached); err != nil {
				return nil, err
			}
		}
		if err := r.repo.IncrementCount(cached.ID); err != nil {
			return nil, err
		}
		effectiveCount := cached.Count + 1
		return r.buildOutcome(ctx, cached.Item2Wins, cached.Description, cached.Emoji, effectiveCount), nil
	}

	// 缓存未命中：规则优先，规则未知时才求助外部裁判
	var judgment judge.Judgment
	switch verdict {
	case oracle.VerdictWins:
		judgment = judge.Judgment{
			Result:      true,
			Description: fmt.Sprintf("%s triumphs over %s!", item2, item1),
			Emoji:       "🏆",
		}
	case oracle.VerdictLoses:
		judgment = judge.Judgment{
			Result:      false,
			Description: fmt.Sprintf("%s cannot beat %s.", item2, item1),
			Emoji:       "❌",
		}
	default:
		judgment = r.judge.Judge(ctx, item1, item2)
	}

	newCmp := &Comparison{
		Item1:       item1,
		Item2:       item2,
		Item1Wins:   !judgment.Result,
		Item2Wins:   judgment.Result,
		Description: judgment.Description,
		Emoji:       judgment.Emoji,
		Count:       1,
	}
	if err := r.repo.Create(newCmp); err != nil {
		return nil, err
	}
	return r.buildOutcome(ctx, judgment.Result, judgment.Description, judgment.Emoji, 1), nil
}

// correctAgainstOracle 按先验规则纠正缓存记录的胜负方向，返回是否发生了修改。
func (r *Resolver) correctAgainstOracle(cmp *Comparison, verdict oracle.Verdict) bool {
	var want bool
	switch verdict {
	case oracle.VerdictWins:
		want = true
	case oracle.VerdictLoses:
		want = false
	default:
		return false
	}
	if cmp.Item2Wins == want {
		return false
	}
	cmp.Item2Wins = want
	cmp.Item1Wins = !want
	return true
}

func (r *Resolver) buildOutcome(ctx context.Context, result bool, description, emoji string, count int) *Outcome {
	band := r.annotator.BandFor(ctx, count)
	return &Outcome{
		Result:          result,
		Description:     description,
		Emoji:           emoji,
		Count:           count,
		BandDescription: band.Description,
		BandEmoji:       band.Emoji,
	}
}

// ApplyCorrection 以管理员裁定覆盖一条缓存记录的胜负方向。
// 记录不存在时会创建一条计数为0的新记录。
func (r *Resolver) ApplyCorrection(item1, item2 string, item2Wins bool, description, emoji string) (*Comparison, error) {
	cached, err := r.repo.Get(item1, item2)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		// 计数从1起算，与正常裁定入库保持同一不变量
		cached = &Comparison{
			Item1:       item1,
			Item2:       item2,
			Item1Wins:   !item2Wins,
			Item2Wins:   item2Wins,
			Description: description,
			Emoji:       emoji,
			Count:       1,
		}
		if err := r.repo.Create(cached); err != nil {
			return nil, err
		}
		return cached, nil
	}
	cached.Item1Wins = !item2Wins
	cached.Item2Wins = item2Wins
	if description != "" {
		cached.Description = description
	}
	if emoji != "" {
		cached.Emoji = emoji
	}
	if err := r.repo.Save(cached); err != nil {
		return nil, err
	}
	return cached, nil
}
