package engine

import (
	"time"

	"MontyPoker/internal/game/card"
	"MontyPoker/internal/game/table"
)

// SeatView 座位公开状态；牌面不在这里，摊牌前只有本人可见
type SeatView struct {
	Address      string `json:"address"`
	Active       bool   `json:"active"`
	Folded       bool   `json:"folded"`
	Peeked       bool   `json:"peeked"`
	UsedMonty    bool   `json:"usedMonty"`
	MontyDecided bool   `json:"montyDecided"`
	Chips        int64  `json:"chips"`
	RoundBet     int64  `json:"roundBet"`
	Nonce        uint64 `json:"nonce"`
}

// RevealRow 摊牌表的一行
type RevealRow struct {
	Address string    `json:"address"`
	Card    card.Card `json:"card"`
	Folded  bool      `json:"folded"`
}

// Snapshot 完整对外状态。观察者一般先查 Version()，
// 变了才来取这份全量
type Snapshot struct {
	ID          uint64      `json:"id"`
	Phase       string      `json:"phase"`
	Pot         int64       `json:"pot"`
	CurrentBet  int64       `json:"currentBet"`
	BufferEnd   time.Time   `json:"bufferEnd"`
	PhaseEnd    time.Time   `json:"phaseEnd"`
	ActiveCount int         `json:"activeCount"`
	Seats       []SeatView  `json:"seats"`
	Version     uint64      `json:"version"`
	CleanedUp   bool        `json:"cleanedUp"`
	Showdown    []RevealRow `json:"showdown,omitempty"` // 仅 Showdown/Ended 后填充
}

// Version 廉价的仅版本查询
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Table.Version
}

// Snapshot 全量公开状态
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	s := Snapshot{
		ID:          t.ID,
		Phase:       t.Phase.String(),
		Pot:         t.Pot,
		CurrentBet:  t.CurrentBet,
		BufferEnd:   t.BufferEnd,
		PhaseEnd:    t.PhaseEnd,
		ActiveCount: t.ActiveCount,
		Version:     t.Version,
		CleanedUp:   t.CleanedUp,
	}
	for _, p := range t.Seats {
		s.Seats = append(s.Seats, SeatView{
			Address:      p.Address,
			Active:       p.Active,
			Folded:       p.Folded,
			Peeked:       p.Peeked,
			UsedMonty:    p.UsedMonty,
			MontyDecided: p.MontyDecided,
			Chips:        p.Chips,
			RoundBet:     p.RoundBet,
			Nonce:        p.Nonce,
		})
	}
	// 摊牌之前牌面绝不进快照
	if t.Phase >= table.Showdown {
		for _, p := range t.Seats {
			if p.CardIdx < 0 {
				continue
			}
			s.Showdown = append(s.Showdown, RevealRow{
				Address: p.Address,
				Card:    t.Deck[p.CardIdx],
				Folded:  p.Folded,
			})
		}
	}
	return s
}

// KeeperAction 调度器下一步该做什么；None 表示无事可做
type KeeperAction int

const (
	ActionNone KeeperAction = iota
	ActionStartPeek
	ActionEndPeek
	ActionEndBetting
	ActionCleanup
)

// ReadyAction 只读的"可否推进"查询，调度器据此发起普通操作，
// 不需要自行猜测阶段语义
func (e *Engine) ReadyAction(now time.Time) KeeperAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	if t.CleanedUp {
		return ActionNone
	}
	switch t.Phase {
	case table.Registration:
		if t.PhaseElapsed(now) && len(t.Seats) >= 2 {
			return ActionStartPeek
		}
	case table.PeekPhase:
		if t.PhaseElapsed(now) {
			return ActionEndPeek
		}
	case table.Betting:
		if t.PhaseElapsed(now) {
			return ActionEndBetting
		}
	case table.Ended:
		return ActionCleanup
	}
	return ActionNone
}
