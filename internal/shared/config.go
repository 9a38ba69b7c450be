package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	OverpassBase  string
	OverpassRPS   int
	ImportWorkers int
	CacheTTL      time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":10000"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		MongoURI:      env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       env("MONGO_DB", "doenerfinder"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		OverpassBase:  env("OVERPASS_BASE_URL", "https://overpass-api.de/api/interpreter"),
		OverpassRPS:   atoi("OVERPASS_RPS", 2),
		ImportWorkers: atoi("IMPORT_WORKERS", 4),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
	}
	if c.MongoURI == "" {
		log.Warn().Msg("MONGO_URI is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
