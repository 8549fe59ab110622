package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                       string
	DatabaseURL                string
	DBMaxConns                 int
	DBMinConns                 int
	Environment                string
	JWTSecret                  string
	AuthRequired               bool
	RunMigrations              bool
	MigrationsDir              string
	RunSeed                    bool
	DefaultShiftName           string
	DefaultShiftStart          string
	DefaultShiftEnd            string
	DefaultShiftValidInStart   string
	DefaultShiftValidInEnd     string
	Timezone                   string
	NonWorkingWeekdays         []time.Weekday
	LateGraceMinutes           int
	EarlyPunchToleranceMinutes int
	RedisAddr                  string
	RedisPassword              string
	RecomputeLockTTL           time.Duration
	CORSAllowedOrigins         []string
	MaxBodyBytes               int64
	RateLimitPerMinute         int
	MetricsEnabled             bool
}

// Load reads the process environment, after merging an optional .env file.
func Load() Config {
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	return Config{
		Addr:                       getEnv("APP_ADDR", ":8080"),
		DatabaseURL:                getEnv("DATABASE_URL", ""),
		DBMaxConns:                 getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:                 getEnvInt("DB_MIN_CONNS", 2),
		Environment:                getEnv("APP_ENV", "development"),
		JWTSecret:                  getEnv("JWT_SECRET", ""),
		AuthRequired:               getEnvBool("AUTH_REQUIRED", false),
		RunMigrations:              getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:              getEnv("MIGRATIONS_DIR", "migrations"),
		RunSeed:                    getEnvBool("RUN_SEED", true),
		DefaultShiftName:           getEnv("DEFAULT_SHIFT_NAME", "Regular Day Shift"),
		DefaultShiftStart:          getEnv("DEFAULT_SHIFT_START", "08:00:00"),
		DefaultShiftEnd:            getEnv("DEFAULT_SHIFT_END", "17:00:00"),
		DefaultShiftValidInStart:   getEnv("DEFAULT_SHIFT_VALID_IN_START", "07:00:00"),
		DefaultShiftValidInEnd:     getEnv("DEFAULT_SHIFT_VALID_IN_END", "08:00:00"),
		Timezone:                   getEnv("TIMEZONE", "UTC"),
		NonWorkingWeekdays:         getEnvWeekdays("NON_WORKING_WEEKDAYS", []time.Weekday{time.Sunday}),
		LateGraceMinutes:           getEnvInt("LATE_GRACE_MINUTES", 5),
		EarlyPunchToleranceMinutes: getEnvInt("EARLY_PUNCH_TOLERANCE_MINUTES", 30),
		RedisAddr:                  getEnv("REDIS_ADDR", ""),
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		RecomputeLockTTL:           getEnvDuration("RECOMPUTE_LOCK_TTL", 30*time.Second),
		CORSAllowedOrigins:         getEnvList("CORS_ALLOWED_ORIGINS", nil),
		MaxBodyBytes:               int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:         getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:             getEnvBool("METRICS_ENABLED", true),
	}
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvWeekdays(key string, fallback []time.Weekday) []time.Weekday {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	days, err := ParseWeekdays(value)
	if err != nil {
		return fallback
	}
	return days
}

// ParseWeekdays accepts a comma separated list of English weekday names or
// three-letter abbreviations. An empty string yields no weekdays.
func ParseWeekdays(value string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if name == full || name == full[:3] {
				out = append(out, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
	}
	return out, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMaxConns < 0 || c.DBMinConns < 0 || (c.DBMaxConns > 0 && c.DBMinConns > c.DBMaxConns) {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if c.AuthRequired && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set when AUTH_REQUIRED is true")
	}
	if c.Environment == "production" && !c.AuthRequired {
		return fmt.Errorf("AUTH_REQUIRED must be enabled in production")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if c.LateGraceMinutes < 0 {
		return fmt.Errorf("LATE_GRACE_MINUTES must not be negative")
	}
	if c.EarlyPunchToleranceMinutes < 0 {
		return fmt.Errorf("EARLY_PUNCH_TOLERANCE_MINUTES must not be negative")
	}
	if c.RedisAddr != "" && c.RecomputeLockTTL <= 0 {
		return fmt.Errorf("RECOMPUTE_LOCK_TTL must be positive when REDIS_ADDR is set")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
