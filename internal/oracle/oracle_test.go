package oracle

import "testing"

func TestLookupDirectAndReverse(t *testing.T) {
	oc := New()

	if got := oc.Lookup("rock", "paper"); got != VerdictWins {
		t.Fatalf("Lookup(rock, paper) = %v, 期望 VerdictWins", got)
	}
	if got := oc.Lookup("paper", "rock"); got != VerdictLoses {
		t.Fatalf("Lookup(paper, rock) = %v, 期望 VerdictLoses", got)
	}
	if got := oc.Lookup("scissors", "rock"); got != VerdictWins {
		t.Fatalf("Lookup(scissors, rock) = %v, 期望 VerdictWins", got)
	}
}

func TestLookupUnknownPair(t *testing.T) {
	oc := New()
	if got := oc.Lookup("rock", "banana"); got != VerdictUnknown {
		t.Fatalf("Lookup(rock, banana) = %v, 期望 VerdictUnknown", got)
	}
}

func TestLookupNormalizesInput(t *testing.T) {
	oc := New()
	if got := oc.Lookup("  Rock ", "PAPER"); got != VerdictWins {
		t.Fatalf("规范化后的查询应命中规则，得到 %v", got)
	}
}

func TestLookupSameItem(t *testing.T) {
	oc := New()
	if got := oc.Lookup("rock", "rock"); got != VerdictUnknown {
		t.Fatalf("同物品对决应为 VerdictUnknown，得到 %v", got)
	}
}

func TestContains(t *testing.T) {
	oc := New()
	if !oc.Contains("water", "fire") {
		t.Fatal("Contains(water, fire) 应为 true")
	}
	if oc.Contains("water", "banana") {
		t.Fatal("Contains(water, banana) 应为 false")
	}
}

func TestTemporalPairs(t *testing.T) {
	cases := []struct {
		item1, item2 string
		want         Verdict
	}{
		{"caterpillar", "butterfly", VerdictWins},
		{"egg", "chicken", VerdictWins},
		{"chicken", "egg", VerdictLoses},
		{"grape", "wine", VerdictWins},
	}
	oc := New()
	for _, tc := range cases {
		if got := oc.Lookup(tc.item1, tc.item2); got != tc.want {
			t.Errorf("Lookup(%s, %s) = %v, 期望 %v", tc.item1, tc.item2, got, tc.want)
		}
	}
}
