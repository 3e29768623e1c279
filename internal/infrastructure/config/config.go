package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	LogLevel    string

	RedisAddr      string
	IdempotencyTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	SeedProducts    bool
	NotifyQueueSize int
}

// Load reads a .env file when present and then the process environment.
// An empty DatabaseURL selects the in-memory store.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:            getenv("SHOP_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       getenv("JWT_SECRET", "dev-secret"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		IdempotencyTTL:  getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		KafkaBrokers:    splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      getenv("KAFKA_TOPIC", "order.events"),
		SeedProducts:    getBool("SEED_PRODUCTS", true),
		NotifyQueueSize: getInt("NOTIFY_QUEUE_SIZE", 256),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getenv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitCSV(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
