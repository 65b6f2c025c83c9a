package table

import (
	"time"

	"MontyPoker/internal/game/bitmap"
	"MontyPoker/internal/game/card"
)

// Rules 单局游戏参数，由 config 构造，测试中直接字面量注入
type Rules struct {
	RegistrationDur time.Duration
	BufferDur       time.Duration
	PeekDur         time.Duration
	BettingDur      time.Duration
	PeekFee         int64
	MontyFee        int64
	MinBet          int64
	StartingChips   int64
	TableCap        int // 最多 5 座
}

// Player 每局每座位一条记录；弃牌/离场后记录保留到 cleanup，供审计与摊牌展示
type Player struct {
	Address      string    `json:"address"`
	Active       bool      `json:"active"`
	Peeked       bool      `json:"peeked"`
	UsedMonty    bool      `json:"usedMonty"`
	MontyDecided bool      `json:"montyDecided"` // 留/换已定，不允许反悔重掷
	Folded       bool      `json:"folded"`
	CardIdx      int       `json:"-"` // 牌堆下标；摊牌前不得外泄
	Chips        int64     `json:"chips"`
	RoundBet     int64     `json:"roundBet"`
	LastAction   time.Time `json:"lastAction"`
	Nonce        uint64    `json:"nonce"` // 每次成功动作 +1，与 Version 相互独立
}

// Table 单局聚合根：牌堆、位图、座位、奖池、阶段与版本号全部由它独占。
// 并发约束由 engine 的每局互斥锁保证，这里只是数据。
type Table struct {
	ID        uint64
	CreatedAt time.Time

	Phase     Phase
	BufferEnd time.Time // now < BufferEnd 期间玩家动作一律拒绝
	PhaseEnd  time.Time

	Seats       []*Player // 报名期 append-only，容量 Rules.TableCap
	ActiveCount int       // 未弃牌座位数缓存，fold/leave 时同步维护

	Deck       []card.Card // 52 张，PeekPhase 开始时洗一次
	Assigned   bitmap.Bits // 已分配给座位的牌位
	Revealed   bitmap.Bits // 已通过三门机制揭示的牌位
	Pot        int64
	CurrentBet int64 // 桌面最高下注额（支持加注）

	Winner   string // 结算后填充，供审计落库
	FinalPot int64

	Version   uint64 // 从 1 开始，每次成功变更严格递增
	CleanedUp bool   // 终态；置位后任何操作都失败

	Rules Rules
}

// New 创建报名期的空桌
func New(id uint64, rules Rules, now time.Time) *Table {
	return &Table{
		ID:        id,
		CreatedAt: now,
		Phase:     Registration,
		PhaseEnd:  now.Add(rules.RegistrationDur), // 报名截止后调度器才会开局
		Seats:     make([]*Player, 0, rules.TableCap),
		Version:   1,
		Rules:     rules,
	}
}

// Seat 返回地址对应的座位记录，未入座返回 nil
func (t *Table) Seat(addr string) *Player {
	for _, p := range t.Seats {
		if p.Address == addr {
			return p
		}
	}
	return nil
}

// RemoveSeat 报名期离座：与末位交换后弹出
func (t *Table) RemoveSeat(addr string) bool {
	for i, p := range t.Seats {
		if p.Address == addr {
			last := len(t.Seats) - 1
			t.Seats[i] = t.Seats[last]
			t.Seats = t.Seats[:last]
			return true
		}
	}
	return false
}
