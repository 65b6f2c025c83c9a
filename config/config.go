package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
	}
	Keeper struct {
		Token      string // 调度器专用令牌，携带此令牌的请求视为 scheduler
		PollMillis int
	}
	Wagering struct {
		BaseURL string // 留空则使用 Noop 通知器
	}
	Game struct {
		RegistrationSeconds int
		BufferSeconds       int
		PeekPhaseSeconds    int
		BettingPhaseSeconds int
		PeekFee             int64
		MontyFee            int64
		MinBet              int64
		StartingChips       int64
		TableCap            int
	}
}

var C Config

func Load() {
	viper.SetConfigFile("config/config.yaml")

	// 游戏参数默认值（可被 yaml 覆盖）
	viper.SetDefault("game.registrationSeconds", 30)
	viper.SetDefault("game.bufferSeconds", 10)
	viper.SetDefault("game.peekPhaseSeconds", 60)
	viper.SetDefault("game.bettingPhaseSeconds", 60)
	viper.SetDefault("game.peekFee", 5)
	viper.SetDefault("game.montyFee", 7)
	viper.SetDefault("game.minBet", 5)
	viper.SetDefault("game.startingChips", 25)
	viper.SetDefault("game.tableCap", 5)
	viper.SetDefault("keeper.pollMillis", 500)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}
	if err := viper.Unmarshal(&C); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}
}
