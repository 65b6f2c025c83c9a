package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"MontyPoker/internal/game/engine"
	"MontyPoker/internal/game/table"
	"MontyPoker/internal/websocket"
)

// mockHub 实现 HubInterface，记录消息
type mockHub struct {
	mu         sync.Mutex
	broadcasts []websocket.OutgoingMessage
}

func (h *mockHub) BroadcastToPlayers(addrs []string, msg websocket.OutgoingMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcasts = append(h.broadcasts, msg)
}
func (h *mockHub) BroadcastGame(gameID uint64, msg websocket.OutgoingMessage) {}
func (h *mockHub) SendToPlayer(addr string, msg websocket.OutgoingMessage)    {}
func (h *mockHub) ClientByAddress(addr string) (*websocket.Client, bool)      { return nil, false }
func (h *mockHub) Close()                                                     {}

type mockWager struct{}

func (mockWager) OpenWagering(gameID uint64, sessionID string)         {}
func (mockWager) CloseWagering(gameID uint64)                          {}
func (mockWager) ReportResult(gameID uint64, winner string, pot int64) {}

// mockStore 记录审计落库调用
type mockStore struct {
	saved []uint64
}

func (s *mockStore) SaveSettlement(ctx context.Context, gameID uint64, winner string, pot int64, settledAt time.Time) error {
	s.saved = append(s.saved, gameID)
	return nil
}

func testRules() table.Rules {
	return table.Rules{
		RegistrationDur: 30 * time.Second,
		BufferDur:       time.Millisecond,
		PeekDur:         time.Millisecond,
		BettingDur:      time.Millisecond,
		PeekFee:         5,
		MontyFee:        7,
		MinBet:          5,
		StartingChips:   25,
		TableCap:        5,
	}
}

func newTestManager(reg Registry, store ResultStore) *GameManager {
	return NewGameManager(&mockHub{}, mockWager{}, reg, store, testRules(), func() int64 { return 42 })
}

// ---------- 建局与编号 ----------

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	m := newTestManager(NewMemoryRegistry(), nil)
	ctx := context.Background()

	id1 := m.Create(ctx)
	id2 := m.Create(ctx)
	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)

	// 两局都登记进大厅
	ids, err := m.ListJoinable(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)
}

// ---------- 入座约束 ----------

func TestJoinOnlyOneGameAtATime(t *testing.T) {
	m := newTestManager(NewMemoryRegistry(), nil)
	ctx := context.Background()

	id1 := m.Create(ctx)
	id2 := m.Create(ctx)

	assert.NoError(t, m.Join(id1, "0xA"))
	// 同一地址不能同时在两局里
	assert.ErrorIs(t, m.Join(id2, "0xA"), engine.ErrAlreadySeated)

	// 离座后可以换桌
	assert.NoError(t, m.Leave(id1, "0xA"))
	assert.NoError(t, m.Join(id2, "0xA"))
}

func TestJoinUnknownGame(t *testing.T) {
	m := newTestManager(NewMemoryRegistry(), nil)
	assert.ErrorIs(t, m.Join(99, "0xA"), engine.ErrGameNotFound)
	_, err := m.Engine(99)
	assert.ErrorIs(t, err, engine.ErrGameNotFound)
}

// ---------- cleanup：标记清理 + 大厅摘除 + 审计 ----------

func TestCleanupEvictsAndAudits(t *testing.T) {
	store := &mockStore{}
	m := newTestManager(NewMemoryRegistry(), store)
	ctx := context.Background()

	id := m.Create(ctx)
	assert.NoError(t, m.Join(id, "0xA"))
	assert.NoError(t, m.Join(id, "0xB"))

	eng, err := m.Engine(id)
	assert.NoError(t, err)

	// 快进整局：固定时钟推到各阶段截止
	now := eng.Table.CreatedAt
	eng.Now = func() time.Time { return now }
	assert.NoError(t, eng.StartPeekPhase())
	now = eng.Table.PhaseEnd
	assert.NoError(t, eng.EndPeekPhase())
	now = eng.Table.PhaseEnd
	assert.NoError(t, eng.EndBettingPhase())

	assert.NoError(t, m.Cleanup(ctx, id))
	assert.True(t, eng.Table.CleanedUp)

	// 大厅已摘除
	ids, err := m.ListJoinable(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)

	// "在局中"标记已清，玩家可加入新局
	id2 := m.Create(ctx)
	assert.NoError(t, m.Join(id2, "0xA"))

	// 审计落库一次
	assert.Equal(t, []uint64{id}, store.saved)

	// 二次回收被拒
	assert.ErrorIs(t, m.Cleanup(ctx, id), engine.ErrCleanedUp)
}

// ---------- Redis（miniredis）登记表 ----------

func TestRedisRegistry(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	reg := NewRedisRegistry(rdb)
	ctx := context.Background()

	assert.NoError(t, reg.Add(ctx, 3))
	assert.NoError(t, reg.Add(ctx, 1))
	assert.NoError(t, reg.Add(ctx, 2))

	ids, err := reg.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	assert.NoError(t, reg.Remove(ctx, 2))
	ids, err = reg.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, ids)
}

func TestManagerWithRedisRegistry(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := newTestManager(NewRedisRegistry(rdb), nil)
	ctx := context.Background()

	id := m.Create(ctx)
	ids, err := m.ListJoinable(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []uint64{id}, ids)
}
