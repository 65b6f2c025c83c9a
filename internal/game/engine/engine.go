package engine

import (
	"sync"
	"time"

	"MontyPoker/internal/game/bitmap"
	"MontyPoker/internal/game/card"
	"MontyPoker/internal/game/dealer"
	"MontyPoker/internal/game/table"
	"MontyPoker/internal/wagering"
	"MontyPoker/internal/websocket"
)

// ---------------------
//       ENGINE
// ---------------------

// Engine 单局编排器。所有操作要么完整生效并递增 Version/Nonce，
// 要么零改动返回类型化错误；每局一把互斥锁，复刻源环境的全序执行。
type Engine struct {
	mu     sync.Mutex
	Table  *table.Table
	Dealer *dealer.Dealer
	Hub    websocket.HubInterface
	Wager  wagering.Notifier
	Now    func() time.Time // 测试注入固定时钟
}

func NewEngine(t *table.Table, d *dealer.Dealer, hub websocket.HubInterface, w wagering.Notifier) *Engine {
	return &Engine{
		Table:  t,
		Dealer: d,
		Hub:    hub,
		Wager:  w,
		Now:    time.Now,
	}
}

// --------------------------
//        报名期操作
// --------------------------

// Join 报名期入座；跨局的"是否已在别桌"由 manager 把关
func (e *Engine) Join(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	if t.CleanedUp {
		return ErrCleanedUp
	}
	if t.Phase != table.Registration {
		return ErrWrongPhase
	}
	if len(t.Seats) >= t.Rules.TableCap {
		return ErrGameFull
	}
	if t.Seat(addr) != nil {
		return ErrAlreadySeated
	}

	now := e.Now()
	t.Seats = append(t.Seats, &table.Player{
		Address:    addr,
		Active:     true,
		CardIdx:    -1,
		Chips:      t.Rules.StartingChips,
		LastAction: now,
	})
	t.ActiveCount++
	t.Version++

	e.announce("join", addr, t.Version)
	return nil
}

// Leave 报名期主动离座：换尾弹出
func (e *Engine) Leave(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	if t.CleanedUp {
		return ErrCleanedUp
	}
	if t.Phase != table.Registration {
		return ErrWrongPhase
	}
	if !t.RemoveSeat(addr) {
		return ErrNotSeated
	}
	t.ActiveCount--
	t.Version++

	e.announce("leave", addr, t.Version)
	return nil
}

// --------------------------
//     调度器驱动的切换
// --------------------------

// StartPeekPhase 报名截止后开局：洗牌、每座发一张、清空揭示位图、
// 开缓冲窗进入 PeekPhase，并通知旁注池封盘
func (e *Engine) StartPeekPhase() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	if t.CleanedUp {
		return ErrCleanedUp
	}
	if t.Phase != table.Registration {
		return ErrWrongPhase
	}
	if len(t.Seats) < 2 {
		return ErrNotEnoughPlayers
	}

	now := e.Now()
	t.Deck = e.Dealer.ShuffledDeck()
	t.Assigned = t.Assigned.Reset()
	t.Revealed = t.Revealed.Reset()
	for i, p := range t.Seats {
		// 洗牌后按座位序取堆顶：下标 i 即该座的牌位
		p.CardIdx = i
		t.Assigned = t.Assigned.Set(i)
	}
	t.EnterPhase(table.PeekPhase, now, t.Rules.PeekDur)

	e.Wager.CloseWagering(t.ID)
	e.broadcastPhase()
	return nil
}

// EndPeekPhase 窥牌阶段截止后进入下注阶段（标准带缓冲切换）
func (e *Engine) EndPeekPhase() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	if t.CleanedUp {
		return ErrCleanedUp
	}
	if t.Phase != table.PeekPhase {
		return ErrWrongPhase
	}
	now := e.Now()
	if !t.PhaseElapsed(now) {
		return ErrPhaseNotElapsed
	}

	t.EnterPhase(table.Betting, now, t.Rules.BettingDur)
	e.broadcastPhase()
	return nil
}

// EndBettingPhase 下注截止后进入摊牌并立即结算
func (e *Engine) EndBettingPhase() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	if t.CleanedUp {
		return ErrCleanedUp
	}
	if t.Phase != table.Betting {
		return ErrWrongPhase
	}
	now := e.Now()
	if !t.PhaseElapsed(now) {
		return ErrPhaseNotElapsed
	}

	t.EnterPhase(table.Showdown, now, 0)
	e.broadcastPhase()
	e.settle()
	return nil
}

// Cleanup 终局回收：只在 Ended 且未回收时合法。
// 座位的跨局标记与大厅登记由 manager 负责清理。
func (e *Engine) Cleanup() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	if t.CleanedUp {
		return ErrCleanedUp
	}
	if t.Phase != table.Ended {
		return ErrWrongPhase
	}
	t.CleanedUp = true
	t.Version++
	return nil
}

// --------------------------
//        玩家动作
// --------------------------

// Peek 付费看自己的牌，一局一次；费用销毁，不进奖池。
// 牌面只通过私密通道发给本人。
func (e *Engine) Peek(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	now := e.Now()
	p, err := e.gate(table.PeekPhase, addr, now)
	if err != nil {
		return err
	}
	if p.Peeked {
		return ErrAlreadyPeeked
	}
	if p.Chips < t.Rules.PeekFee {
		return ErrInsufficientBalance
	}

	p.Chips -= t.Rules.PeekFee
	p.Peeked = true
	e.touch(p, now)
	t.Version++

	e.Hub.SendToPlayer(addr, websocket.OutgoingMessage{
		Event: "peek_reveal",
		Data: map[string]any{
			"game": t.ID,
			"card": t.Deck[p.CardIdx],
		},
	})
	e.announce("peek", addr, t.Version)
	return nil
}

// UseMontyHall 付费触发三门揭示：从"未分配且未揭示"的池子里
// 无放回抽 2 个牌位标记为已揭示，牌面只发给本人
func (e *Engine) UseMontyHall(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	now := e.Now()
	p, err := e.gate(table.PeekPhase, addr, now)
	if err != nil {
		return err
	}
	if p.UsedMonty {
		return ErrMontyAlreadyUsed
	}
	if p.Chips < t.Rules.MontyFee {
		return ErrInsufficientBalance
	}

	pool := bitmap.FreeIndices(t.Assigned, t.Revealed, len(t.Deck))
	picks := e.Dealer.SampleN(pool, 2)

	p.Chips -= t.Rules.MontyFee
	p.UsedMonty = true
	shown := make([]card.Card, 0, len(picks))
	for _, idx := range picks {
		t.Revealed = t.Revealed.Set(idx)
		shown = append(shown, t.Deck[idx])
	}
	e.touch(p, now)
	t.Version++

	e.Hub.SendToPlayer(addr, websocket.OutgoingMessage{
		Event: "monty_reveal",
		Data: map[string]any{
			"game":  t.ID,
			"cards": shown,
		},
	})
	e.announce("monty_hall", addr, t.Version)
	return nil
}

// MontyHallDecision 三门揭示后的留/换决定，一次定死：
// 付的是一次选择的钱，反悔重掷等于免费重抽，还会随换牌通知
// 持续泄露牌面。swap=false 只更新时间戳与 nonce；swap=true
// 释放旧牌位，从既未分配也未揭示的池子均匀抽一张换上。
// 旧牌牌面随换牌通知发给本人；新牌牌面只有窥过牌的玩家才会收到。
func (e *Engine) MontyHallDecision(addr string, swap bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	now := e.Now()
	p, err := e.gate(table.PeekPhase, addr, now)
	if err != nil {
		return err
	}
	if !p.UsedMonty {
		return ErrMontyNotUsed
	}
	if p.MontyDecided {
		return ErrMontyDecided
	}

	if !swap {
		p.MontyDecided = true
		e.touch(p, now)
		t.Version++
		e.announce("monty_keep", addr, t.Version)
		return nil
	}

	oldIdx := p.CardIdx
	// 释放旧位后旧牌自身也会进池；换牌必须换成别的牌
	pool := removeIdx(bitmap.FreeIndices(t.Assigned.Clear(oldIdx), t.Revealed, len(t.Deck)), oldIdx)
	newIdx := e.Dealer.PickOne(pool)

	t.Assigned = t.Assigned.Clear(oldIdx)
	t.Assigned = t.Assigned.Set(newIdx)
	p.CardIdx = newIdx
	p.MontyDecided = true
	e.touch(p, now)
	t.Version++

	data := map[string]any{
		"game":    t.ID,
		"oldCard": t.Deck[oldIdx],
	}
	if p.Peeked {
		data["newCard"] = t.Deck[newIdx]
	}
	e.Hub.SendToPlayer(addr, websocket.OutgoingMessage{
		Event: "swap_result",
		Data:  data,
	})
	e.announce("monty_swap", addr, t.Version)
	return nil
}

// PlaceBet 下注/跟注/加注。桌面已有注时 amount 至少补齐差额，
// 否则至少为最小注；不抽水，注额全额进池
func (e *Engine) PlaceBet(addr string, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	now := e.Now()
	p, err := e.gate(table.Betting, addr, now)
	if err != nil {
		return err
	}
	if p.Folded {
		return ErrAlreadyFolded
	}
	if amount <= 0 {
		return ErrBetNotPositive
	}
	if t.CurrentBet > 0 {
		if shortfall := t.CurrentBet - p.RoundBet; amount < shortfall {
			return ErrBetTooLow
		}
	} else if amount < t.Rules.MinBet {
		return ErrBetTooLow
	}
	if p.Chips < amount {
		return ErrInsufficientBalance
	}

	p.Chips -= amount
	p.RoundBet += amount
	t.Pot += amount
	if p.RoundBet > t.CurrentBet {
		t.CurrentBet = p.RoundBet // 桌面最高注，支持加注
	}
	e.touch(p, now)
	t.Version++

	e.announce("bet", addr, t.Version)
	return nil
}

// Fold 弃牌。降到只剩 1 人时立刻强制摊牌结算，且不开缓冲窗 ——
// 源实现的不对称路径，按原样保留
func (e *Engine) Fold(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.Table

	now := e.Now()
	p, err := e.gate(table.Betting, addr, now)
	if err != nil {
		return err
	}
	if p.Folded {
		return ErrAlreadyFolded
	}

	p.Folded = true
	t.ActiveCount--
	e.touch(p, now)
	t.Version++
	e.announce("fold", addr, t.Version)

	if t.ActiveCount == 1 {
		t.ForceShowdown()
		e.settle()
	}
	return nil
}

// --------------------------
//          结算
// --------------------------

// settle 摊牌：公开全部未弃牌者的牌面，按点数降序（同点比花色）
// 定胜者，整池划给胜者，清零奖池与桌面注，进入 Ended。
// 旁注池上报为 best-effort，失败不回滚结算。
func (e *Engine) settle() {
	t := e.Table

	reveal := make([]map[string]any, 0, len(t.Seats))
	var winner *table.Player
	for _, p := range t.Seats {
		if p.Folded {
			continue
		}
		reveal = append(reveal, map[string]any{
			"player": p.Address,
			"card":   t.Deck[p.CardIdx],
		})
		if winner == nil || card.Compare(t.Deck[p.CardIdx], t.Deck[winner.CardIdx]) > 0 {
			winner = p
		}
	}

	pot := t.Pot
	winner.Chips += pot
	t.Pot = 0
	t.CurrentBet = 0
	t.Winner = winner.Address
	t.FinalPot = pot
	t.Phase = table.Ended
	t.Version++

	msg := websocket.OutgoingMessage{
		Event: "settled",
		Data: map[string]any{
			"game":     t.ID,
			"winner":   winner.Address,
			"pot":      pot,
			"showdown": reveal,
			"version":  t.Version,
		},
	}
	e.Hub.BroadcastToPlayers(seatAddrs(t), msg)
	e.Hub.BroadcastGame(t.ID, msg)
	e.Wager.ReportResult(t.ID, winner.Address, pot)
}

// --------------------------
//        通用校验
// --------------------------

// gate 玩家动作统一闸门，校验顺序：终态 → 阶段 → 缓冲窗 → 截止时间 → 座位
func (e *Engine) gate(want table.Phase, addr string, now time.Time) (*table.Player, error) {
	t := e.Table
	if t.CleanedUp {
		return nil, ErrCleanedUp
	}
	if t.Phase != want {
		return nil, ErrWrongPhase
	}
	if t.InBuffer(now) {
		return nil, ErrBufferActive
	}
	if !now.Before(t.PhaseEnd) {
		return nil, ErrPhaseOver
	}
	p := t.Seat(addr)
	if p == nil {
		return nil, ErrNotSeated
	}
	return p, nil
}

func (e *Engine) touch(p *table.Player, now time.Time) {
	p.Nonce++
	p.LastAction = now
}

// announce 公开的粗粒度动作事件：谁做了哪类动作，不带私密载荷
func (e *Engine) announce(action, addr string, version uint64) {
	msg := websocket.OutgoingMessage{
		Event: "action",
		Data: map[string]any{
			"game":    e.Table.ID,
			"player":  addr,
			"action":  action,
			"version": version,
		},
	}
	e.Hub.BroadcastToPlayers(seatAddrs(e.Table), msg)
	e.Hub.BroadcastGame(e.Table.ID, msg)
}

func (e *Engine) broadcastPhase() {
	t := e.Table
	msg := websocket.OutgoingMessage{
		Event: "phase_changed",
		Data: map[string]any{
			"game":      t.ID,
			"phase":     t.Phase.String(),
			"bufferEnd": t.BufferEnd,
			"phaseEnd":  t.PhaseEnd,
			"version":   t.Version,
		},
	}
	e.Hub.BroadcastToPlayers(seatAddrs(t), msg)
	e.Hub.BroadcastGame(t.ID, msg)
}

func seatAddrs(t *table.Table) []string {
	addrs := make([]string, 0, len(t.Seats))
	for _, p := range t.Seats {
		addrs = append(addrs, p.Address)
	}
	return addrs
}

func removeIdx(pool []int, idx int) []int {
	out := make([]int, 0, len(pool))
	for _, v := range pool {
		if v != idx {
			out = append(out, v)
		}
	}
	return out
}
