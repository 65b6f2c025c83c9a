package engine

import "errors"

// 所有校验失败都是同步的类型化拒绝：状态零改动，由调用方自行重试
var (
	ErrGameNotFound        = errors.New("game not found")
	ErrCleanedUp           = errors.New("game already cleaned up")
	ErrWrongPhase          = errors.New("operation not legal in current phase")
	ErrBufferActive        = errors.New("buffer period active")
	ErrPhaseNotElapsed     = errors.New("phase deadline not yet elapsed")
	ErrPhaseOver           = errors.New("phase deadline already passed")
	ErrGameFull            = errors.New("game is full")
	ErrAlreadySeated       = errors.New("player already seated")
	ErrNotSeated           = errors.New("not an active seat")
	ErrAlreadyFolded       = errors.New("player already folded")
	ErrAlreadyPeeked       = errors.New("peek already performed")
	ErrMontyAlreadyUsed    = errors.New("monty hall option already used")
	ErrMontyNotUsed        = errors.New("monty hall option not used")
	ErrMontyDecided        = errors.New("monty hall decision already made")
	ErrNotEnoughPlayers    = errors.New("need at least 2 seated players")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBetTooLow           = errors.New("bet below required amount")
	ErrBetNotPositive      = errors.New("bet must be positive")
	ErrNotScheduler        = errors.New("caller is not an authorized scheduler")
)
