package manager

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"MontyPoker/internal/game/engine"
)

// Handler 牌局 HTTP 入口。身份（address）由 JWT middleware 注入，
// scheduler 路由由 SchedulerOnly middleware 把关。
type Handler struct {
	mgr *GameManager
}

func NewHandler(mgr *GameManager) *Handler {
	return &Handler{mgr: mgr}
}

type BetRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

type DecisionRequest struct {
	Swap bool `json:"swap"`
}

func gameID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad game id"})
		return 0, false
	}
	return id, true
}

// 错误 → 状态码：找不到对局 404，其余校验失败统一 400
func reply(c *gin.Context, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	status := http.StatusBadRequest
	if errors.Is(err, engine.ErrGameNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ---------- scheduler 路由 ----------

// POST /scheduler/games
func (h *Handler) Create(c *gin.Context) {
	id := h.mgr.Create(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"gameId": id})
}

// POST /scheduler/games/:id/start-peek
func (h *Handler) StartPeek(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	reply(c, eng.StartPeekPhase())
}

// POST /scheduler/games/:id/end-peek
func (h *Handler) EndPeek(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	reply(c, eng.EndPeekPhase())
}

// POST /scheduler/games/:id/end-betting
func (h *Handler) EndBetting(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	reply(c, eng.EndBettingPhase())
}

// POST /scheduler/games/:id/cleanup
func (h *Handler) Cleanup(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	reply(c, h.mgr.Cleanup(c.Request.Context(), id))
}

// ---------- 玩家路由 ----------

// POST /games/:id/join
func (h *Handler) Join(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	reply(c, h.mgr.Join(id, c.GetString("address")))
}

// POST /games/:id/leave
func (h *Handler) Leave(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	reply(c, h.mgr.Leave(id, c.GetString("address")))
}

// POST /games/:id/peek
func (h *Handler) Peek(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	reply(c, eng.Peek(c.GetString("address")))
}

// POST /games/:id/monty
func (h *Handler) UseMontyHall(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	reply(c, eng.UseMontyHall(c.GetString("address")))
}

// POST /games/:id/monty/decision  body: {swap}
func (h *Handler) MontyDecision(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	reply(c, eng.MontyHallDecision(c.GetString("address"), req.Swap))
}

// POST /games/:id/bet  body: {amount}
func (h *Handler) Bet(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req BetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	reply(c, eng.PlaceBet(c.GetString("address"), req.Amount))
}

// POST /games/:id/fold
func (h *Handler) Fold(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	reply(c, eng.Fold(c.GetString("address")))
}

// ---------- 查询路由 ----------

// GET /games  大厅可加入列表
func (h *Handler) List(c *gin.Context) {
	ids, err := h.mgr.ListJoinable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": ids})
}

// GET /games/:id  全量公开快照
func (h *Handler) Snapshot(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	c.JSON(http.StatusOK, eng.Snapshot())
}

// GET /games/:id/version  仅版本查询，观察者先看这个
func (h *Handler) Version(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	eng, err := h.mgr.Engine(id)
	if err != nil {
		reply(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": eng.Version()})
}
