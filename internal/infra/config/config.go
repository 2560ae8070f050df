package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	StorageMode        string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	RedisAddr          string
	RatingCacheTTL     time.Duration
	AuthSecret         string
	ListingFixtures    string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageMode:      strings.ToLower(getEnv("STORAGE_MODE", StorageMemory)),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "roomly"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		AuthSecret:       os.Getenv("AUTH_HS256_SECRET"),
		ListingFixtures:  os.Getenv("LISTING_FIXTURES"),
	}

	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	cacheTTL, err := parseDurationEnv("RATING_CACHE_TTL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.RatingCacheTTL = cacheTTL

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	switch cfg.StorageMode {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
	if cfg.AuthSecret == "" {
		return Config{}, fmt.Errorf("AUTH_HS256_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
