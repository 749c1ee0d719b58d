package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"flow-board/internal/service"
)

// Config 结构体用于存储从环境变量或 .env 文件加载的配置
type Config struct {
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	JWTSecret         string
	ServerPort        string
	LogLevel          string
	RateLimitMax      int
	RateLimitWindow   time.Duration
	JWTExpiryHours    int
	AppEnv            string // development / production
	KeyPrefix         string // Redis key 前缀
	CORSAllowedOrigin string
	DraftTTL          time.Duration
	MaxBoardSize      int
	DraftSweepEvery   string // asynq 调度表达式
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // 允许只使用环境变量

	cfg := &Config{
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            os.Getenv("DB_PORT"),
		DBName:            os.Getenv("DB_NAME"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ServerPort:        os.Getenv("SERVER_PORT"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		AppEnv:            os.Getenv("APP_ENV"),
		KeyPrefix:         os.Getenv("REDIS_KEY_PREFIX"),
		CORSAllowedOrigin: os.Getenv("CORS_ALLOWED_ORIGIN"),
		RateLimitMax:      100,
		RateLimitWindow:   1 * time.Second,
		JWTExpiryHours:    24,
		DraftTTL:          service.DefaultDraftTTL,
		MaxBoardSize:      service.DefaultMaxBoardSize,
		DraftSweepEvery:   "@every 1h",
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB")) // 默认为 0
	if hours, err := strconv.Atoi(os.Getenv("DRAFT_TTL_HOURS")); err == nil && hours > 0 {
		cfg.DraftTTL = time.Duration(hours) * time.Hour
	}
	if size, err := strconv.Atoi(os.Getenv("MAX_BOARD_SIZE")); err == nil && size > 0 {
		cfg.MaxBoardSize = size
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "flow:"
	}
	if cfg.CORSAllowedOrigin == "" {
		cfg.CORSAllowedOrigin = "http://localhost:3000"
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}
