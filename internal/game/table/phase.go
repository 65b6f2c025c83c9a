package table

import "time"

// Phase 阶段枚举，只能按声明顺序前进；
// 唯一例外：Betting 期弃牌只剩 1 人时直接强制进入 Showdown（不开缓冲窗）
type Phase int

const (
	Registration Phase = iota
	PeekPhase
	Betting
	Showdown
	Ended
)

func (p Phase) String() string {
	switch p {
	case Registration:
		return "registration"
	case PeekPhase:
		return "peek"
	case Betting:
		return "betting"
	case Showdown:
		return "showdown"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// EnterPhase 标准的带缓冲窗切换：先记 BufferEnd，再记 PhaseEnd。
// 观察者在缓冲期内能看到 Phase 已变，但任何玩家动作都会被 InBuffer 挡下，
// 这是防抢跑设计：窗口期内没有可利用的动作。
func (t *Table) EnterPhase(p Phase, now time.Time, phaseDur time.Duration) {
	t.Phase = p
	t.BufferEnd = now.Add(t.Rules.BufferDur)
	t.PhaseEnd = t.BufferEnd.Add(phaseDur)
	t.Version++
}

// ForceShowdown 弃牌触发的强制摊牌路径：不开缓冲窗。
// 与定时切换不对称，但没有可抢跑的后续动作，保持原样。
func (t *Table) ForceShowdown() {
	t.Phase = Showdown
	t.BufferEnd = time.Time{}
	t.PhaseEnd = time.Time{}
	t.Version++
}

// InBuffer 缓冲窗是否仍未结束
func (t *Table) InBuffer(now time.Time) bool {
	return now.Before(t.BufferEnd)
}

// PhaseElapsed 当前阶段截止时间是否已过（调度器推进的前置条件）
func (t *Table) PhaseElapsed(now time.Time) bool {
	return !t.PhaseEnd.IsZero() && !now.Before(t.PhaseEnd)
}
