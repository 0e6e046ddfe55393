package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv            string
	LogLevel          string
	Store             string // mysql | memory
	HTTPAddr          string
	MetricsAddr       string
	MySQLDSN          string
	RedisAddr         string
	RedisDB           int
	RedisPass         string
	JWTSecret         string
	CacheTTL          time.Duration
	DefaultTaxPercent float64
	ReconcileEvery    time.Duration
	RateLimitRPS      int
	RateLimitBurst    int
	Location          *time.Location
}

func Load() Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		LogLevel:          env("LOG_LEVEL", "info"),
		Store:             env("STORE", "mysql"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		MetricsAddr:       env("METRICS_ADDR", ""),
		MySQLDSN:          env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:         env("REDIS_ADDR", "localhost:6379"),
		RedisPass:         env("REDIS_PASSWORD", ""),
		RedisDB:           atoi("REDIS_DB", 0),
		JWTSecret:         env("JWT_SECRET", ""),
		CacheTTL:          time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		DefaultTaxPercent: atof("DEFAULT_TAX_PERCENT", 12),
		ReconcileEvery:    time.Duration(atoi("RECONCILE_INTERVAL_SECONDS", 3600)) * time.Second,
		RateLimitRPS:      atoi("RATE_LIMIT_RPS", 50),
		RateLimitBurst:    atoi("RATE_LIMIT_BURST", 100),
		Location:          time.UTC,
	}
	if tz := os.Getenv("HOTEL_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn().Str("tz", tz).Err(err).Msg("unknown HOTEL_TZ, using UTC")
		} else {
			c.Location = loc
		}
	}
	if c.Store != "mysql" && c.Store != "memory" {
		log.Warn().Str("store", c.Store).Msg("unknown STORE, using mysql")
		c.Store = "mysql"
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; every authenticated request will be rejected")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// SystemClock reads wall time in the hotel's time zone, so "today" is the
// hotel's calendar day.
type SystemClock struct{ Loc *time.Location }

func (c SystemClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Loc)
}
