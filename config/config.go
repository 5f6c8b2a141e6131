package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Activity ActivityConfig
	Log      LogConfig
}

type ServerConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName      string `env:"DB_NAME" envDefault:"postgres"`
	SSLMode     string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns    int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// ActivityConfig 活動紀錄佇列與未讀徽章快取設定
type ActivityConfig struct {
	// Queue 可為 "redis" 或 "memory"
	Queue              string        `env:"ACTIVITY_QUEUE" envDefault:"redis"`
	ConsumerID         string        `env:"ACTIVITY_CONSUMER_ID"`
	MemoryBufferSize   int           `env:"ACTIVITY_BUFFER_SIZE" envDefault:"1024"`
	ClaimMinIdleTime   time.Duration `env:"ACTIVITY_CLAIM_MIN_IDLE" envDefault:"5s"`
	MaxRetryCount      int           `env:"ACTIVITY_MAX_RETRY" envDefault:"5"`
	RetryDelay         time.Duration `env:"ACTIVITY_RETRY_DELAY" envDefault:"1s"`
	ReadGroupBlockTime time.Duration `env:"ACTIVITY_BLOCK_TIME" envDefault:"2s"`
	BadgeCacheTTL      time.Duration `env:"BADGE_CACHE_TTL" envDefault:"10m"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

var AppConfig *Config

// LoadConfig 讀取 .env（非 production）後解析環境變數
func LoadConfig() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// .env 不存在時直接使用系統環境變數
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	AppConfig = cfg
	return cfg, nil
}

func LoadTestConfig() *Config {
	return &Config{
		Env: "test",
		Database: DatabaseConfig{
			Host:     getEnv("TEST_DB_HOST", "localhost"),
			Port:     getEnv("TEST_DB_PORT", "5433"), // 測試 DB 用 5433 port
			User:     getEnv("TEST_DB_USER", "postgres"),
			Password: getEnv("TEST_DB_PASSWORD", "postgres"),
			DBName:   getEnv("TEST_DB_NAME", "test_db"),
			SSLMode:  "disable",
			MaxConns: 5,
			MinConns: 1,
		},
		Redis: RedisConfig{
			Host: getEnv("TEST_REDIS_HOST", "localhost"),
			Port: getEnv("TEST_REDIS_PORT", "6380"), // 測試 Redis 用 6380 port
			DB:   1,
		},
		Activity: ActivityConfig{
			Queue:            "memory",
			MemoryBufferSize: 64,
			MaxRetryCount:    3,
			RetryDelay:       10 * time.Millisecond,
			BadgeCacheTTL:    time.Minute,
		},
		Log: LogConfig{Level: "debug", Format: "console"},
	}
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s timezone=UTC",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
