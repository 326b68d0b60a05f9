package oracle

import "strings"

// Verdict 定义了关系表查询结果的枚举类型
type Verdict int

const (
	// VerdictUnknown 表示关系表中没有这对物品的记录
	VerdictUnknown Verdict = iota
	// VerdictWins 表示挑战方（item2）确定击败当前物品（item1）
	VerdictWins
	// VerdictLoses 表示挑战方确定被当前物品击败
	VerdictLoses
)

// pair 是关系表的键：有方向的 (当前物品, 挑战物品) 二元组
type pair struct {
	item1 string
	item2 string
}

// Oracle 是一张不可变的权威关系表。
// 表中收录的都是游戏规则意义上"无可争议"的对决结果，
// 用于在缓存或裁判给出矛盾结论时进行纠偏。
type Oracle struct {
	outcomes map[pair]bool
}

// New 构建关系表。表在启动时构造一次，此后只读。
func New() *Oracle {
	o := &Oracle{outcomes: make(map[pair]bool, 64)}

	// 每对关系只录入一个方向，反方向由Lookup取反得到。
	// add(a, b) 表示 b 击败 a。
	add := func(loser, winner string) {
		o.outcomes[pair{item1: loser, item2: winner}] = true
	}

	// 石头剪刀布
	add("rock", "paper")
	add("scissors", "rock")
	add("paper", "scissors")

	// 蜥蜴-史波克扩展
	add("paper", "lizard")
	add("spock", "lizard")
	add("rock", "spock")
	add("scissors", "spock")
	add("lizard", "rock")
	add("spock", "paper")
	add("lizard", "scissors")

	// 扑克牌大小
	add("king", "ace")
	add("queen", "king")
	add("jack", "queen")
	add("ten", "jack")

	// 国际象棋子力价值
	add("rook", "queen")
	add("bishop", "rook")
	add("knight", "rook")
	add("pawn", "bishop")
	add("pawn", "knight")

	// 物理与化学
	add("paper", "fire")
	add("wood", "fire")
	add("fire", "water")
	add("salt", "water")
	add("sugar", "water")
	add("metal", "acid")
	add("glass", "diamond")
	add("wood", "metal")
	add("rope", "knife")
	add("iron", "rust")

	// 时间与过程：后一阶段击败前一阶段
	add("caterpillar", "butterfly")
	add("child", "adult")
	add("egg", "chicken")
	add("seed", "tree")
	add("grape", "wine")

	return o
}

// Lookup 查询挑战方item2是否击败当前物品item1。
// 查询顺序：1) 正向条目 (item1, item2)；2) 反向条目 (item2, item1) 取反；3) 未知。
// 纯函数，无任何副作用。
func (o *Oracle) Lookup(item1, item2 string) Verdict {
	item1 = normalize(item1)
	item2 = normalize(item2)

	if wins, ok := o.outcomes[pair{item1: item1, item2: item2}]; ok {
		if wins {
			return VerdictWins
		}
		return VerdictLoses
	}
	if wins, ok := o.outcomes[pair{item1: item2, item2: item1}]; ok {
		// 反向条目存在，结论取反
		if wins {
			return VerdictLoses
		}
		return VerdictWins
	}
	return VerdictUnknown
}

// Contains 判断某一对物品是否在关系表中（不区分方向）。
func (o *Oracle) Contains(item1, item2 string) bool {
	return o.Lookup(item1, item2) != VerdictUnknown
}

func normalize(item string) string {
	return strings.ToLower(strings.TrimSpace(item))
}
