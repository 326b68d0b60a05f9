package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SlpAus/what-beats-backend/internal/comparison"
	"github.com/SlpAus/what-beats-backend/internal/frequency"
	"github.com/SlpAus/what-beats-backend/internal/judge"
	"github.com/SlpAus/what-beats-backend/internal/oracle"
)

type fakeJudge struct {
	judgment judge.Judgment
}

func (f *fakeJudge) Judge(ctx context.Context, item1, item2 string) judge.Judgment {
	return f.judgment
}

func (f *fakeJudge) FrequencyBand(ctx context.Context, rangeStart int, rangeEnd *int) judge.BandDescription {
	return judge.BandDescription{Description: "getting popular", Emoji: "🔄"}
}

func newTestService(t *testing.T) (*Service, *Repository, *fakeJudge) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	err = db.AutoMigrate(&Session{}, &HighScore{}, &comparison.Comparison{}, &frequency.Band{})
	if err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	fake := &fakeJudge{judgment: judge.Judgment{Result: true, Description: "judged win", Emoji: "✨"}}
	annotator := frequency.NewAnnotator(frequency.NewRepository(db, nil), fake)
	if err := annotator.SeedDefaults(); err != nil {
		t.Fatalf("播种默认区间失败: %v", err)
	}
	resolver := comparison.NewResolver(comparison.NewRepository(db), oracle.New(), fake, annotator)
	repo := NewRepository(db)
	return NewService(repo, resolver), repo, fake
}

func TestStartGame(t *testing.T) {
	s, _, _ := newTestService(t)
	session, err := s.StartGame("player-1")
	if err != nil {
		t.Fatalf("StartGame失败: %v", err)
	}
	if session.CurrentItem != "rock" {
		t.Fatalf("起始物品 = %q, 期望 rock", session.CurrentItem)
	}
	if session.Score != 0 || !session.IsActive {
		t.Fatalf("新会话状态不正确: %+v", session)
	}
	if len(session.Items()) != 0 {
		t.Fatalf("新会话历史链应为空: %v", session.Items())
	}
}

func TestSubmitComparisonWinAdvancesChain(t *testing.T) {
	s, _, _ := newTestService(t)
	session, _ := s.StartGame("player-1")

	result, err := s.SubmitComparison(context.Background(), session.SessionID, "Paper", "player-1")
	if err != nil {
		t.Fatalf("SubmitComparison失败: %v", err)
	}
	if !result.Outcome.Result || result.Score != 1 || result.GameOver {
		t.Fatalf("获胜后的状态不正确: %+v", result)
	}

	refreshed, err := s.GetStatus(session.SessionID)
	if err != nil {
		t.Fatalf("GetStatus失败: %v", err)
	}
	if refreshed.CurrentItem != "paper" {
		t.Fatalf("当前物品 = %q, 期望 paper", refreshed.CurrentItem)
	}
	if items := refreshed.Items(); len(items) != 1 || items[0] != "rock" {
		t.Fatalf("历史链 = %v, 期望 [rock]", items)
	}
}

func TestSubmitComparisonRejectsReusedItems(t *testing.T) {
	s, _, _ := newTestService(t)
	session, _ := s.StartGame("player-1")
	if _, err := s.SubmitComparison(context.Background(), session.SessionID, "paper", "player-1"); err != nil {
		t.Fatalf("SubmitComparison失败: %v", err)
	}

	// 与当前物品重复
	_, err := s.SubmitComparison(context.Background(), session.SessionID, "paper", "player-1")
	var usedErr *ItemAlreadyUsedError
	if !errors.As(err, &usedErr) || usedErr.Reason != "current" {
		t.Fatalf("期望reason=current的ItemAlreadyUsedError，得到 %v", err)
	}

	// 与历史链重复
	_, err = s.SubmitComparison(context.Background(), session.SessionID, "rock", "player-1")
	if !errors.As(err, &usedErr) || usedErr.Reason != "used" {
		t.Fatalf("期望reason=used的ItemAlreadyUsedError，得到 %v", err)
	}
}

func TestSubmitComparisonLossEndsGame(t *testing.T) {
	s, _, fake := newTestService(t)
	session, _ := s.StartGame("player-1")
	fake.judgment = judge.Judgment{Result: false, Description: "no chance", Emoji: "❌"}

	result, err := s.SubmitComparison(context.Background(), session.SessionID, "pebble", "player-1")
	if err != nil {
		t.Fatalf("SubmitComparison失败: %v", err)
	}
	if !result.GameOver || result.EndGameData == nil {
		t.Fatalf("判负后游戏应结束: %+v", result)
	}
	if result.EndGameData.FinalScore != 0 || result.EndGameData.Qualified {
		t.Fatalf("零分不应达标: %+v", result.EndGameData)
	}

	// 已结束的会话拒绝后续提交
	_, err = s.SubmitComparison(context.Background(), session.SessionID, "paper", "player-1")
	if !errors.Is(err, ErrSessionInactive) {
		t.Fatalf("期望ErrSessionInactive，得到 %v", err)
	}
}

func TestHighScoreThreshold(t *testing.T) {
	s, repo, fake := newTestService(t)
	session, _ := s.StartGame("player-1")

	// rock -> paper -> fire -> water，全部由先验规则裁定
	for _, item := range []string{"paper", "fire", "water"} {
		result, err := s.SubmitComparison(context.Background(), session.SessionID, item, "player-1")
		if err != nil {
			t.Fatalf("提交 %q 失败: %v", item, err)
		}
		if !result.Outcome.Result {
			t.Fatalf("%q 应当获胜", item)
		}
	}

	fake.judgment = judge.Judgment{Result: false, Description: "no", Emoji: "❌"}
	result, err := s.SubmitComparison(context.Background(), session.SessionID, "pebble", "player-1")
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if result.EndGameData.FinalScore != 3 || !result.EndGameData.Qualified {
		t.Fatalf("三分应当达标: %+v", result.EndGameData)
	}

	scores, err := repo.TopHighScores(10)
	if err != nil {
		t.Fatalf("查询高分榜失败: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 3 {
		t.Fatalf("高分榜 = %+v, 期望一条3分记录", scores)
	}
	wantChain := []string{"rock", "paper", "fire", "water"}
	chain := scores[0].Chain()
	if len(chain) != len(wantChain) {
		t.Fatalf("物品链 = %v, 期望 %v", chain, wantChain)
	}
	for i := range wantChain {
		if chain[i] != wantChain[i] {
			t.Fatalf("物品链 = %v, 期望 %v", chain, wantChain)
		}
	}
}

func TestFullGameWalkthrough(t *testing.T) {
	s, _, fake := newTestService(t)
	session, err := s.StartGame("player-1")
	if err != nil {
		t.Fatalf("StartGame失败: %v", err)
	}

	// 第一回合：paper击败rock（先验规则）
	result, err := s.SubmitComparison(context.Background(), session.SessionID, "paper", "player-1")
	if err != nil {
		t.Fatalf("提交paper失败: %v", err)
	}
	if !result.Outcome.Result || result.Score != 1 {
		t.Fatalf("第一回合结果不正确: %+v", result)
	}

	// 重复当前物品与重复历史物品都被拒绝
	var usedErr *ItemAlreadyUsedError
	if _, err := s.SubmitComparison(context.Background(), session.SessionID, "paper", "player-1"); !errors.As(err, &usedErr) || usedErr.Reason != "current" {
		t.Fatalf("重复当前物品应被拒绝: %v", err)
	}
	if _, err := s.SubmitComparison(context.Background(), session.SessionID, "rock", "player-1"); !errors.As(err, &usedErr) || usedErr.Reason != "used" {
		t.Fatalf("重复历史物品应被拒绝: %v", err)
	}

	// 第二回合：scissors击败paper（先验规则）
	result, err = s.SubmitComparison(context.Background(), session.SessionID, "scissors", "player-1")
	if err != nil {
		t.Fatalf("提交scissors失败: %v", err)
	}
	if !result.Outcome.Result || result.Score != 2 {
		t.Fatalf("第二回合结果不正确: %+v", result)
	}

	// 猜错即终局
	fake.judgment = judge.Judgment{Result: false, Description: "no", Emoji: "❌"}
	result, err = s.SubmitComparison(context.Background(), session.SessionID, "pebble", "player-1")
	if err != nil {
		t.Fatalf("败北回合提交失败: %v", err)
	}
	if !result.GameOver || result.EndGameData == nil {
		t.Fatalf("败北后游戏应结束: %+v", result)
	}
	if result.EndGameData.FinalScore != 2 || result.EndGameData.Qualified {
		t.Fatalf("两分不应达标: %+v", result.EndGameData)
	}

	// 终局后状态仍可查询，继续提交被拒绝
	status, err := s.GetStatus(session.SessionID)
	if err != nil {
		t.Fatalf("GetStatus失败: %v", err)
	}
	if status.IsActive || status.CurrentItem != "scissors" {
		t.Fatalf("终局状态不正确: %+v", status)
	}
	if _, err := s.SubmitComparison(context.Background(), session.SessionID, "fire", "player-1"); !errors.Is(err, ErrSessionInactive) {
		t.Fatalf("终局后的提交应被拒绝: %v", err)
	}

	// 重复结束只返回总结
	summary, err := s.EndGame(session.SessionID, "player-1")
	if err != nil {
		t.Fatalf("EndGame失败: %v", err)
	}
	if summary.FinalScore != 2 {
		t.Fatalf("总结分数 = %d, 期望 2", summary.FinalScore)
	}
}

func TestEndGameIsIdempotent(t *testing.T) {
	s, repo, _ := newTestService(t)
	session, _ := s.StartGame("player-1")
	for _, item := range []string{"paper", "fire", "water"} {
		if _, err := s.SubmitComparison(context.Background(), session.SessionID, item, "player-1"); err != nil {
			t.Fatalf("提交 %q 失败: %v", item, err)
		}
	}

	first, err := s.EndGame(session.SessionID, "player-1")
	if err != nil {
		t.Fatalf("首次EndGame失败: %v", err)
	}
	second, err := s.EndGame(session.SessionID, "player-1")
	if err != nil {
		t.Fatalf("重复EndGame失败: %v", err)
	}
	if first.FinalScore != second.FinalScore {
		t.Fatalf("两次总结不一致: %d vs %d", first.FinalScore, second.FinalScore)
	}

	scores, err := repo.TopHighScores(10)
	if err != nil {
		t.Fatalf("查询高分榜失败: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("成绩快照应只有一份，实际 %d 份", len(scores))
	}
}

func TestOwnerBinding(t *testing.T) {
	s, _, _ := newTestService(t)
	session, _ := s.StartGame("")

	// 首个带身份的请求完成绑定
	if _, err := s.SubmitComparison(context.Background(), session.SessionID, "paper", "player-a"); err != nil {
		t.Fatalf("绑定提交失败: %v", err)
	}
	// 其他玩家被拒绝
	_, err := s.SubmitComparison(context.Background(), session.SessionID, "fire", "player-b")
	if !errors.Is(err, ErrNotSessionOwner) {
		t.Fatalf("期望ErrNotSessionOwner，得到 %v", err)
	}
	// 绑定玩家继续有效
	if _, err := s.SubmitComparison(context.Background(), session.SessionID, "fire", "player-a"); err != nil {
		t.Fatalf("绑定玩家的提交失败: %v", err)
	}
}

func TestSessionNotFound(t *testing.T) {
	s, _, _ := newTestService(t)
	_, err := s.GetStatus("no-such-session")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("期望ErrSessionNotFound，得到 %v", err)
	}
}

func TestScoreboardQueryAndStats(t *testing.T) {
	_, repo, _ := newTestService(t)

	for i, score := range []int{3, 7, 5} {
		hs := &HighScore{SessionID: fmt.Sprintf("session-%d", i), Score: score}
		hs.SetChain([]string{"rock"})
		if err := repo.SaveHighScore(hs); err != nil {
			t.Fatalf("写入成绩失败: %v", err)
		}
	}

	list, total, err := repo.QueryScoreboard(ScoreboardQuery{Page: 1, PageSize: 2, SortBy: "score", Order: "desc"})
	if err != nil {
		t.Fatalf("查询排行榜失败: %v", err)
	}
	if total != 3 || len(list) != 2 || list[0].Score != 7 {
		t.Fatalf("排行榜分页结果不正确: total=%d, list=%+v", total, list)
	}

	filtered, total, err := repo.QueryScoreboard(ScoreboardQuery{MinScore: 5})
	if err != nil {
		t.Fatalf("过滤查询失败: %v", err)
	}
	if total != 2 || len(filtered) != 2 {
		t.Fatalf("min_score过滤结果不正确: total=%d", total)
	}

	bounded, total, err := repo.QueryScoreboard(ScoreboardQuery{MinScore: 4, MaxScore: 6})
	if err != nil {
		t.Fatalf("区间过滤查询失败: %v", err)
	}
	if total != 1 || len(bounded) != 1 || bounded[0].Score != 5 {
		t.Fatalf("分数区间过滤结果不正确: total=%d, %+v", total, bounded)
	}

	stats, err := repo.SummarizeScoreboard()
	if err != nil {
		t.Fatalf("汇总失败: %v", err)
	}
	if stats.TotalGames != 3 || stats.HighestScore != 7 || stats.AverageScore != 5 {
		t.Fatalf("汇总统计不正确: %+v", stats)
	}
	if stats.LatestGameAt == nil {
		t.Fatal("汇总统计缺少最近成绩时间")
	}
}
