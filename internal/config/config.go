package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Cart     CartConfig
	Loyalty  LoyaltyConfig
	Chat     ChatConfig
	Checkout CheckoutConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type CatalogConfig struct {
	Path string
}

type CartConfig struct {
	DeliveryPrice         decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

type LoyaltyConfig struct {
	PointsPerRub      int64
	MinOrderForPoints int64
}

type ChatConfig struct {
	ReplyDelay time.Duration
}

type CheckoutConfig struct {
	ProcessingDelay time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

// Load reads configuration from the environment, with a .env file as a
// convenience for local runs. Every value has a default.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", "catalog.yaml"),
		},
		Cart: CartConfig{
			DeliveryPrice:         getEnvDecimal("DELIVERY_PRICE", decimal.NewFromInt(200)),
			FreeDeliveryThreshold: getEnvDecimal("FREE_DELIVERY_THRESHOLD", decimal.NewFromInt(1500)),
		},
		Loyalty: LoyaltyConfig{
			PointsPerRub:      getEnvInt64("LOYALTY_POINTS_PER_RUB", 1),
			MinOrderForPoints: getEnvInt64("LOYALTY_MIN_ORDER_FOR_POINTS", 100),
		},
		Chat: ChatConfig{
			ReplyDelay: getEnvDuration("CHAT_REPLY_DELAY", time.Second),
		},
		Checkout: CheckoutConfig{
			ProcessingDelay: getEnvDuration("CHECKOUT_PROCESSING_DELAY", time.Second),
		},
		Session: SessionConfig{
			TTL: getEnvDuration("SESSION_TTL", 2*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if parsed, err := decimal.NewFromString(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
