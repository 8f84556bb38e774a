package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	DatabaseURL    string
	DictionaryPath string
	GameDuration   time.Duration
	TickInterval   time.Duration
	GracePeriod    time.Duration
	IdleTimeout    time.Duration
}

// Load reads .env if present, then the environment. Every field has a
// dev-friendly default; only DATABASE_URL being empty changes behavior
// (results are not recorded).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:           getenv("ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DictionaryPath: os.Getenv("DICTIONARY_PATH"),
		GameDuration:   seconds("GAME_DURATION_SEC", 180),
		TickInterval:   seconds("TICK_INTERVAL_SEC", 1),
		GracePeriod:    seconds("GRACE_PERIOD_SEC", 30),
		IdleTimeout:    seconds("IDLE_TIMEOUT_SEC", 300),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
