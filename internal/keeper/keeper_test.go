package keeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"MontyPoker/internal/game/manager"
	"MontyPoker/internal/game/table"
	"MontyPoker/internal/websocket"
)

type nullHub struct{}

func (nullHub) BroadcastToPlayers(addrs []string, msg websocket.OutgoingMessage) {}
func (nullHub) BroadcastGame(gameID uint64, msg websocket.OutgoingMessage)       {}
func (nullHub) SendToPlayer(addr string, msg websocket.OutgoingMessage)          {}
func (nullHub) ClientByAddress(addr string) (*websocket.Client, bool) {
	return nil, false
}
func (nullHub) Close() {}

type nullWager struct{}

func (nullWager) OpenWagering(gameID uint64, sessionID string)         {}
func (nullWager) CloseWagering(gameID uint64)                          {}
func (nullWager) ReportResult(gameID uint64, winner string, pot int64) {}

// ✅ keeper 按只读查询把一整局从报名一路推到回收
func TestSweepDrivesFullLifecycle(t *testing.T) {
	rules := table.Rules{
		RegistrationDur: 30 * time.Second,
		BufferDur:       10 * time.Second,
		PeekDur:         60 * time.Second,
		BettingDur:      60 * time.Second,
		PeekFee:         5,
		MontyFee:        7,
		MinBet:          5,
		StartingChips:   25,
		TableCap:        5,
	}
	mgr := manager.NewGameManager(nullHub{}, nullWager{}, manager.NewMemoryRegistry(), nil, rules, func() int64 { return 42 })
	kp := New(mgr, time.Second)

	id := mgr.Create(context.Background())
	assert.NoError(t, mgr.Join(id, "0xA"))
	assert.NoError(t, mgr.Join(id, "0xB"))

	eng, err := mgr.Engine(id)
	assert.NoError(t, err)

	// engine 的时钟与 keeper 的扫描时刻保持一致
	now := eng.Table.CreatedAt
	eng.Now = func() time.Time { return now }

	// 报名未截止：无事可做
	kp.Sweep(now)
	assert.Equal(t, table.Registration, eng.Table.Phase)

	// 报名截止 → 开局
	now = now.Add(31 * time.Second)
	kp.Sweep(now)
	assert.Equal(t, table.PeekPhase, eng.Table.Phase)

	// 窥牌阶段未到点：不推进
	now = eng.Table.BufferEnd
	kp.Sweep(now)
	assert.Equal(t, table.PeekPhase, eng.Table.Phase)

	// 窥牌截止 → 下注
	now = eng.Table.PhaseEnd
	kp.Sweep(now)
	assert.Equal(t, table.Betting, eng.Table.Phase)

	// 下注截止 → 摊牌结算 → Ended，紧接着一轮扫描触发回收
	now = eng.Table.PhaseEnd
	kp.Sweep(now)
	assert.Equal(t, table.Ended, eng.Table.Phase)

	kp.Sweep(now)
	assert.True(t, eng.Table.CleanedUp)

	// 大厅已摘除
	ids, err := mgr.ListJoinable(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
