package main

import (
	"MontyPoker/config"
	"MontyPoker/internal/auth"
	"MontyPoker/internal/game/manager"
	"MontyPoker/internal/game/table"
	"MontyPoker/internal/keeper"
	"MontyPoker/internal/middleware"
	"MontyPoker/internal/storage"
	"MontyPoker/internal/utils"
	"MontyPoker/internal/wagering"
	"MontyPoker/internal/websocket"
	crand "crypto/rand"
	"encoding/binary"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// 每局洗牌种子：crypto/rand 取 8 字节。
// 源部署环境用链上熵，可被控制出块时序的一方影响；这里换成系统熵源
func shuffleSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

func main() {
	config.Load()
	utils.Init()

	//-------------------------------------------------------
	// 1. 初始化 Redis（大厅登记表）
	//-------------------------------------------------------
	if err := storage.InitRedis(
		config.C.Redis.Addr,
		config.C.Redis.Password,
		config.C.Redis.DB,
	); err != nil {
		utils.Error.Fatalf("Redis init failed: %v", err)
	}

	//-------------------------------------------------------
	// 2. 初始化 Postgres（结算审计，可选）
	//-------------------------------------------------------
	var store manager.ResultStore
	if config.C.Database.DSN != "" {
		if err := storage.InitPostgres(config.C.Database.DSN); err != nil {
			utils.Error.Fatalf("Postgres init failed: %v", err)
		}
		store = storage.NewSettlementStore(storage.DB)
	}

	//-------------------------------------------------------
	// 3. 初始化 Gin + CORS
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Keeper-Token"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	//-------------------------------------------------------
	// 4. 初始化 Hub（必须最先启动）
	//-------------------------------------------------------
	hub := websocket.NewHub()
	go hub.Run()

	//-------------------------------------------------------
	// 5. 旁注协作方（未配置则 Noop）
	//-------------------------------------------------------
	var wager wagering.Notifier = wagering.NoopNotifier{}
	if config.C.Wagering.BaseURL != "" {
		wager = wagering.NewHTTPNotifier(config.C.Wagering.BaseURL)
	}

	//-------------------------------------------------------
	// 6. GameManager + Keeper
	//-------------------------------------------------------
	rules := table.Rules{
		RegistrationDur: time.Duration(config.C.Game.RegistrationSeconds) * time.Second,
		BufferDur:       time.Duration(config.C.Game.BufferSeconds) * time.Second,
		PeekDur:         time.Duration(config.C.Game.PeekPhaseSeconds) * time.Second,
		BettingDur:      time.Duration(config.C.Game.BettingPhaseSeconds) * time.Second,
		PeekFee:         config.C.Game.PeekFee,
		MontyFee:        config.C.Game.MontyFee,
		MinBet:          config.C.Game.MinBet,
		StartingChips:   config.C.Game.StartingChips,
		TableCap:        config.C.Game.TableCap,
	}
	registry := manager.NewRedisRegistry(storage.Rdb)
	gameMgr := manager.NewGameManager(hub, wager, registry, store, rules, shuffleSeed)

	kp := keeper.New(gameMgr, time.Duration(config.C.Keeper.PollMillis)*time.Millisecond)
	go kp.Run()

	//-------------------------------------------------------
	// 7. 路由
	//-------------------------------------------------------
	authGroup := r.Group("/auth")
	{
		auth := auth.NewHandler(storage.Rdb)
		authGroup.GET("/nonce", auth.GetNonce)
		authGroup.POST("/nonce", auth.PostNonce)
		authGroup.POST("/login", auth.Login)
	}

	gh := manager.NewHandler(gameMgr)

	secret := ([]byte)(config.C.JWT.Secret)
	player := r.Group("/", middleware.JwtAuthMiddleware(secret))
	{
		player.GET("/ws", websocket.ServeWS(hub))

		player.GET("/games", gh.List)
		player.GET("/games/:id", gh.Snapshot)
		player.GET("/games/:id/version", gh.Version)

		player.POST("/games/:id/join", gh.Join)
		player.POST("/games/:id/leave", gh.Leave)
		player.POST("/games/:id/peek", gh.Peek)
		player.POST("/games/:id/monty", gh.UseMontyHall)
		player.POST("/games/:id/monty/decision", gh.MontyDecision)
		player.POST("/games/:id/bet", gh.Bet)
		player.POST("/games/:id/fold", gh.Fold)
	}

	// 外部调度器也可以通过这些接口推进阶段（与进程内 keeper 等价）
	sched := r.Group("/scheduler", middleware.SchedulerOnly(config.C.Keeper.Token))
	{
		sched.POST("/games", gh.Create)
		sched.POST("/games/:id/start-peek", gh.StartPeek)
		sched.POST("/games/:id/end-peek", gh.EndPeek)
		sched.POST("/games/:id/end-betting", gh.EndBetting)
		sched.POST("/games/:id/cleanup", gh.Cleanup)
	}

	//-------------------------------------------------------
	// 8. 启动服务器
	//-------------------------------------------------------
	utils.Info.Printf("Server running on %s", config.C.Server.Port)
	r.Run(config.C.Server.Port)
}
