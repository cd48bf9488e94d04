package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// DATABASE_URL switches both stores from memory to Postgres.
	DatabaseURL string

	CORSOrigins []string

	MetricsEnabled bool
	MetricsToken   string

	WriteLimitPerMin int
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists

	cfg := Config{
		Port:             getenv("PORT", "5000"),
		Env:              getenv("APP_ENV", "dev"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MetricsEnabled:   getenv("METRICS_ENABLED", "") == "true",
		MetricsToken:     os.Getenv("METRICS_TOKEN"),
		WriteLimitPerMin: getint("WRITE_LIMIT_PER_MIN", 0),
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg
}
