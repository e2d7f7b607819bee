package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
)

type Config struct {
	Port        string
	Env         string
	CorsOrigins string

	// StoreDriver is "memory" (nothing survives a restart) or "mysql".
	StoreDriver string
	RedisURL    string

	AdminCode     string
	AdminCodeHash string
	StaffCode     string
	StaffCodeHash string

	CutoffHour int
	WeekStart  time.Weekday
	SeedRooms  bool
	Location   *time.Location
}

func (c Config) Production() bool { return c.Env == "production" }

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not found, using process environment")
	}

	cfg := Config{
		Port:          envOrDefault("PORT", "8080"),
		Env:           envOrDefault("APP_ENV", "development"),
		CorsOrigins:   os.Getenv("CORS_ORIGINS"),
		StoreDriver:   strings.ToLower(envOrDefault("STORE_DRIVER", StoreMemory)),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		AdminCode:     strings.TrimSpace(os.Getenv("ADMIN_CODE")),
		AdminCodeHash: strings.TrimSpace(os.Getenv("ADMIN_CODE_HASH")),
		StaffCode:     strings.TrimSpace(os.Getenv("STAFF_CODE")),
		StaffCodeHash: strings.TrimSpace(os.Getenv("STAFF_CODE_HASH")),
	}

	var err error
	if cfg.CutoffHour, err = envInt("BUSINESS_DAY_CUTOFF_HOUR", 6); err != nil {
		return Config{}, err
	}
	if cfg.CutoffHour < 0 || cfg.CutoffHour > 23 {
		return Config{}, fmt.Errorf("BUSINESS_DAY_CUTOFF_HOUR must be 0-23, got %d", cfg.CutoffHour)
	}
	if cfg.WeekStart, err = parseWeekday(envOrDefault("WEEK_START", "sunday")); err != nil {
		return Config{}, err
	}
	if cfg.SeedRooms, err = envBool("SEED_ROOMS", true); err != nil {
		return Config{}, err
	}
	if cfg.Location, err = time.LoadLocation(envOrDefault("TIMEZONE", "Local")); err != nil {
		return Config{}, fmt.Errorf("TIMEZONE: %w", err)
	}
	switch cfg.StoreDriver {
	case StoreMemory, StoreMySQL:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StoreMySQL, cfg.StoreDriver)
	}
	if (cfg.AdminCode == "" && cfg.AdminCodeHash == "") || (cfg.StaffCode == "" && cfg.StaffCodeHash == "") {
		return Config{}, fmt.Errorf("ADMIN_CODE(_HASH) and STAFF_CODE(_HASH) must both be set")
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) || strings.EqualFold(s, d.String()[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("WEEK_START: unknown weekday %q", s)
}
