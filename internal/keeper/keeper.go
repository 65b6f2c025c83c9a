package keeper

import (
	"context"
	"time"

	"MontyPoker/internal/game/engine"
	"MontyPoker/internal/game/manager"
	"MontyPoker/internal/utils"
)

// Keeper 进程内调度器：轮询每局的只读 ReadyAction 查询，
// 到点后发起普通的阶段推进操作。engine 从不阻塞等待——
// "等阶段结束"只是一个事实比较，推进永远由这里发起。
// 线上部署也可以换成外部进程调用同样的 scheduler HTTP 接口。
type Keeper struct {
	mgr  *manager.GameManager
	tick time.Duration
	stop chan struct{}
}

func New(mgr *manager.GameManager, tick time.Duration) *Keeper {
	return &Keeper{
		mgr:  mgr,
		tick: tick,
		stop: make(chan struct{}),
	}
}

func (k *Keeper) Run() {
	ticker := time.NewTicker(k.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			k.Sweep(time.Now())
		case <-k.stop:
			return
		}
	}
}

func (k *Keeper) Close() {
	close(k.stop)
}

// Sweep 扫一遍所有对局并推进到点的阶段。
// 单局失败不影响其他局；时序竞争导致的前置条件错误直接忽略，
// 下一轮会重试。
func (k *Keeper) Sweep(now time.Time) {
	for id, eng := range k.mgr.Engines() {
		var err error
		switch eng.ReadyAction(now) {
		case engine.ActionStartPeek:
			err = eng.StartPeekPhase()
		case engine.ActionEndPeek:
			err = eng.EndPeekPhase()
		case engine.ActionEndBetting:
			err = eng.EndBettingPhase()
		case engine.ActionCleanup:
			err = k.mgr.Cleanup(context.Background(), id)
		default:
			continue
		}
		if err != nil {
			utils.Error.Printf("keeper advance failed game=%d err=%v", id, err)
		}
	}
}
