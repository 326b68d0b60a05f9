package frequency

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SlpAus/what-beats-backend/internal/judge"
)

type fakeJudge struct {
	bandCalls int
	band      judge.BandDescription
}

func (f *fakeJudge) Judge(ctx context.Context, item1, item2 string) judge.Judgment {
	return judge.Judgment{}
}

func (f *fakeJudge) FrequencyBand(ctx context.Context, rangeStart int, rangeEnd *int) judge.BandDescription {
	f.bandCalls++
	return f.band
}

func newTestAnnotator(t *testing.T) (*Annotator, *fakeJudge) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&Band{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	fake := &fakeJudge{band: judge.BandDescription{Description: "a fan favorite showdown!", Emoji: "🎉"}}
	return NewAnnotator(NewRepository(db, nil), fake), fake
}

func TestDetermineRange(t *testing.T) {
	cases := []struct {
		count     int
		wantStart int
		wantEnd   int // -1表示无上界
	}{
		{1, 1, 1},
		{2, 2, 5},
		{5, 2, 5},
		{6, 6, 10},
		{10, 6, 10},
		{11, 10, 19},
		{19, 10, 19},
		{20, 20, 29},
		{137, 130, 139},
	}
	for _, tc := range cases {
		start, end := DetermineRange(tc.count)
		if start != tc.wantStart {
			t.Errorf("DetermineRange(%d) start = %d, 期望 %d", tc.count, start, tc.wantStart)
		}
		if tc.wantEnd == -1 {
			if end != nil {
				t.Errorf("DetermineRange(%d) end = %v, 期望 nil", tc.count, *end)
			}
		} else if end == nil || *end != tc.wantEnd {
			t.Errorf("DetermineRange(%d) end = %v, 期望 %d", tc.count, end, tc.wantEnd)
		}
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	a, _ := newTestAnnotator(t)
	if err := a.SeedDefaults(); err != nil {
		t.Fatalf("首次播种失败: %v", err)
	}
	if err := a.SeedDefaults(); err != nil {
		t.Fatalf("重复播种失败: %v", err)
	}
	n, err := a.repo.Count()
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if n != int64(len(defaultBands)) {
		t.Fatalf("区间数量 = %d, 期望 %d", n, len(defaultBands))
	}
}

func TestBandForSeededRange(t *testing.T) {
	a, fake := newTestAnnotator(t)
	if err := a.SeedDefaults(); err != nil {
		t.Fatalf("播种失败: %v", err)
	}

	band := a.BandFor(context.Background(), 1)
	if band.Description != "First time seeing this comparison!" || band.Emoji != "🆕" {
		t.Fatalf("count=1 得到意外的文案: %+v", band)
	}
	band = a.BandFor(context.Background(), 7)
	if band.Emoji != "🔄" {
		t.Fatalf("count=7 得到意外的文案: %+v", band)
	}
	if fake.bandCalls != 0 {
		t.Fatalf("已播种区间不应触发裁判调用，实际调用 %d 次", fake.bandCalls)
	}
}

func TestBandForSynthesizesAndPersists(t *testing.T) {
	a, fake := newTestAnnotator(t)
	if err := a.SeedDefaults(); err != nil {
		t.Fatalf("播种失败: %v", err)
	}

	band := a.BandFor(context.Background(), 137)
	if band.Description != fake.band.Description || band.Emoji != fake.band.Emoji {
		t.Fatalf("冷门区间文案不正确: %+v", band)
	}
	if fake.bandCalls != 1 {
		t.Fatalf("期望恰好一次裁判调用，实际 %d 次", fake.bandCalls)
	}

	// 第二次命中持久层，裁判不再被调用
	again := a.BandFor(context.Background(), 132)
	if again.Description != band.Description {
		t.Fatalf("同区间的第二次查询结果不一致: %+v", again)
	}
	if fake.bandCalls != 1 {
		t.Fatalf("持久化后仍触发了裁判调用，实际 %d 次", fake.bandCalls)
	}
}
