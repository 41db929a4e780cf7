package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	AES      AESConfig      `mapstructure:"aes"`
	Log      LogConfig      `mapstructure:"log"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Games    GamesConfig    `mapstructure:"games"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// WalletConfig controls the demo wallet funded on registration.
type WalletConfig struct {
	Currency    string `mapstructure:"currency"`
	DemoBalance int64  `mapstructure:"demo_balance"` // minor units
	MaxDeposit  int64  `mapstructure:"max_deposit"`  // minor units, per request
}

// GamesConfig holds bet bounds and per-game tuning.
type GamesConfig struct {
	MinBet   int64          `mapstructure:"min_bet"` // minor units
	MaxBet   int64          `mapstructure:"max_bet"` // minor units
	Crash    CrashConfig    `mapstructure:"crash"`
	Limbo    LimboConfig    `mapstructure:"limbo"`
	Bars     BarsConfig     `mapstructure:"bars"`
	Sugar    SugarConfig    `mapstructure:"sugar"`
	Autoplay AutoplayConfig `mapstructure:"autoplay"`
	History  HistoryConfig  `mapstructure:"history"`
}

type CrashConfig struct {
	BettingWindow time.Duration `mapstructure:"betting_window"` // waiting-state countdown
	TickInterval  time.Duration `mapstructure:"tick_interval"`  // flight tick period
	GrowthRate    float64       `mapstructure:"growth_rate"`    // multiplier factor per tick
	HouseEdge     float64       `mapstructure:"house_edge"`
	MinCrashPoint float64       `mapstructure:"min_crash_point"`
	MaxCrashPoint float64       `mapstructure:"max_crash_point"`
}

type LimboConfig struct {
	HouseEdge float64 `mapstructure:"house_edge"`
	MaxTarget float64 `mapstructure:"max_target"` // highest accepted target multiplier
}

type BarsConfig struct {
	SpinDelay time.Duration `mapstructure:"spin_delay"` // reel animation time before settle
}

type SugarConfig struct {
	MaxWinMultiplier float64       `mapstructure:"max_win_multiplier"` // total payout cap, x bet
	SpinDelay        time.Duration `mapstructure:"spin_delay"`
	CascadeDelay     time.Duration `mapstructure:"cascade_delay"` // pause between cascade steps
}

type AutoplayConfig struct {
	MaxRounds  int           `mapstructure:"max_rounds"`
	RoundDelay time.Duration `mapstructure:"round_delay"` // pause between settled rounds
}

type HistoryConfig struct {
	MaxEntries int64         `mapstructure:"max_entries"` // recent results kept per player+game
	TTL        time.Duration `mapstructure:"ttl"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: ENGINE_.
// Nested keys use underscore: ENGINE_DATABASE_HOST, ENGINE_GAMES_MIN_BET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "round_engine")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "casino-round-engine")
	v.SetDefault("aes.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("wallet.currency", "USD")
	v.SetDefault("wallet.demo_balance", 100000) // 1,000.00 in minor units
	v.SetDefault("wallet.max_deposit", 1000000)
	v.SetDefault("games.min_bet", 10)
	v.SetDefault("games.max_bet", 100000)
	v.SetDefault("games.crash.betting_window", "5s")
	v.SetDefault("games.crash.tick_interval", "100ms")
	v.SetDefault("games.crash.growth_rate", 1.01)
	v.SetDefault("games.crash.house_edge", 0.01)
	v.SetDefault("games.crash.min_crash_point", 1.0)
	v.SetDefault("games.crash.max_crash_point", 1000.0)
	v.SetDefault("games.limbo.house_edge", 0.01)
	v.SetDefault("games.limbo.max_target", 1000.0)
	v.SetDefault("games.bars.spin_delay", "400ms")
	v.SetDefault("games.sugar.max_win_multiplier", 5000.0)
	v.SetDefault("games.sugar.spin_delay", "400ms")
	v.SetDefault("games.sugar.cascade_delay", "300ms")
	v.SetDefault("games.autoplay.max_rounds", 100)
	v.SetDefault("games.autoplay.round_delay", "500ms")
	v.SetDefault("games.history.max_entries", 50)
	v.SetDefault("games.history.ttl", "168h")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: ENGINE_DATABASE_HOST -> database.host
	v.SetEnvPrefix("ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
