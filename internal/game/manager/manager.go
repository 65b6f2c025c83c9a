package manager

import (
	"context"
	"sync"
	"time"

	"MontyPoker/internal/game/dealer"
	"MontyPoker/internal/game/engine"
	"MontyPoker/internal/game/table"
	"MontyPoker/internal/utils"
	"MontyPoker/internal/wagering"
	"MontyPoker/internal/websocket"

	"github.com/google/uuid"
)

// ResultStore 结算审计落库（postgres 实现在 storage 包），失败只记日志
type ResultStore interface {
	SaveSettlement(ctx context.Context, gameID uint64, winner string, pot int64, settledAt time.Time) error
}

// GameManager 管理所有对局：单调递增的局号、局号→engine 映射、
// 玩家→局号 的"在局中"标记，以及大厅登记表
type GameManager struct {
	mu           sync.RWMutex
	nextID       uint64
	engines      map[uint64]*engine.Engine
	playerToGame map[string]uint64

	hub      websocket.HubInterface
	wager    wagering.Notifier
	registry Registry
	store    ResultStore // 可为 nil（未配置 postgres）
	rules    table.Rules
	seedFn   func() int64 // 每局的洗牌熵源
}

func NewGameManager(hub websocket.HubInterface, w wagering.Notifier, reg Registry, store ResultStore, rules table.Rules, seedFn func() int64) *GameManager {
	return &GameManager{
		nextID:       1,
		engines:      make(map[uint64]*engine.Engine),
		playerToGame: make(map[string]uint64),
		hub:          hub,
		wager:        w,
		registry:     reg,
		store:        store,
		rules:        rules,
		seedFn:       seedFn,
	}
}

// Create 建局（仅限 scheduler，角色在 HTTP 层把关）：
// 分配局号、登记到大厅、通知旁注池开盘
func (m *GameManager) Create(ctx context.Context) uint64 {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	t := table.New(id, m.rules, time.Now())
	eng := engine.NewEngine(t, dealer.NewDealer(m.seedFn()), m.hub, m.wager)
	m.engines[id] = eng
	m.mu.Unlock()

	if err := m.registry.Add(ctx, id); err != nil {
		utils.Error.Printf("registry add failed game=%d err=%v", id, err)
	}
	m.wager.OpenWagering(id, uuid.NewString())
	return id
}

// Engine 按局号取 engine
func (m *GameManager) Engine(id uint64) (*engine.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eng, ok := m.engines[id]
	if !ok {
		return nil, engine.ErrGameNotFound
	}
	return eng, nil
}

// Join 入座；同一地址同一时间只能在一局里
func (m *GameManager) Join(id uint64, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	eng, ok := m.engines[id]
	if !ok {
		return engine.ErrGameNotFound
	}
	if _, busy := m.playerToGame[addr]; busy {
		return engine.ErrAlreadySeated
	}
	if err := eng.Join(addr); err != nil {
		return err
	}
	m.playerToGame[addr] = id
	return nil
}

// Leave 报名期离座，同时清掉"在局中"标记
func (m *GameManager) Leave(id uint64, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	eng, ok := m.engines[id]
	if !ok {
		return engine.ErrGameNotFound
	}
	if err := eng.Leave(addr); err != nil {
		return err
	}
	delete(m.playerToGame, addr)
	return nil
}

// Cleanup 终局回收：engine 置终态后，清空全部座位的"在局中"标记、
// 摘掉大厅登记、审计落库（best-effort）
func (m *GameManager) Cleanup(ctx context.Context, id uint64) error {
	m.mu.Lock()
	eng, ok := m.engines[id]
	if !ok {
		m.mu.Unlock()
		return engine.ErrGameNotFound
	}
	if err := eng.Cleanup(); err != nil {
		m.mu.Unlock()
		return err
	}
	t := eng.Table
	for _, p := range t.Seats {
		if m.playerToGame[p.Address] == id {
			delete(m.playerToGame, p.Address)
		}
	}
	m.mu.Unlock()

	if err := m.registry.Remove(ctx, id); err != nil {
		utils.Error.Printf("registry remove failed game=%d err=%v", id, err)
	}
	if m.store != nil {
		if err := m.store.SaveSettlement(ctx, id, t.Winner, t.FinalPot, time.Now()); err != nil {
			utils.Error.Printf("settlement audit failed game=%d err=%v", id, err)
		}
	}
	return nil
}

// ListJoinable 大厅列表
func (m *GameManager) ListJoinable(ctx context.Context) ([]uint64, error) {
	return m.registry.List(ctx)
}

// Engines 当前全部对局的只读副本，供调度器轮询
func (m *GameManager) Engines() map[uint64]*engine.Engine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint64]*engine.Engine, len(m.engines))
	for id, eng := range m.engines {
		out[id] = eng
	}
	return out
}
