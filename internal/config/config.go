package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AtomicMode selects how the unit-of-work coordinator commits writes.
type AtomicMode string

const (
	// AtomicModeTransactional commits balance write and ledger append as one
	// database transaction.
	AtomicModeTransactional AtomicMode = "transactional"
	// AtomicModeBestEffort runs the same unit of work without a transaction.
	// Weaker: a crash between writes can leave a balance change without its
	// ledger entry. Only for backends without multi-statement transactions.
	AtomicModeBestEffort AtomicMode = "best_effort"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	JWTSecret      string
	SwaggerHost    string
	AtomicMode     AtomicMode
	RechargeFloor  decimal.Decimal
	PaymentTimeout time.Duration
	RiderDirectory string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		MySQLDSN:       getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/farecard?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
		AtomicMode:     getAtomicMode("ATOMIC_MODE"),
		RechargeFloor:  getEnvDecimal("RECHARGE_FLOOR", decimal.NewFromInt(5)),
		PaymentTimeout: getEnvDuration("PAYMENT_TIMEOUT", 3*time.Second),
		RiderDirectory: os.Getenv("RIDER_DIRECTORY_FILE"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if parsed, err := decimal.NewFromString(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getAtomicMode(key string) AtomicMode {
	if v := os.Getenv(key); v == string(AtomicModeBestEffort) {
		return AtomicModeBestEffort
	}
	return AtomicModeTransactional
}
