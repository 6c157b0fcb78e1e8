// Package config loads Mosaic's runtime configuration from the
// environment. A .env file in the working directory is honored when
// present; explicit environment variables win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jarosser06/mosaic/internal/timeutil"
)

// Config is the resolved runtime configuration.
type Config struct {
	// DatabaseURL locates the SQLite database file. Required.
	DatabaseURL string

	// BridgeURL is the desktop-notification bridge endpoint. Empty
	// disables outbound notifications.
	BridgeURL string

	// NotificationsEnabled gates all bridge traffic, including the
	// scheduler's dispatches.
	NotificationsEnabled bool

	// DefaultSound is sent with notifications that don't specify one.
	DefaultSound string

	// Timezone is the user's IANA timezone; all local-date and
	// shortcut computations happen here.
	Timezone *time.Location

	// WeekBoundary decides where "this_week" starts.
	WeekBoundary timeutil.WeekBoundary

	// DefaultPrivacy is applied to records created without an
	// explicit privacy level.
	DefaultPrivacy string

	// CheckInterval is the scheduler's due-reminder scan period.
	CheckInterval time.Duration

	// LogLevel is advisory; stdlib log has no levels, but "debug"
	// enables per-tick scheduler chatter.
	LogLevel string
}

// Load reads configuration from the environment. The database URL is
// the only required setting; everything else has a sane default.
func Load() (*Config, error) {
	// Best effort: absence of .env is normal.
	_ = godotenv.Load()

	dbURL := os.Getenv("MOSAIC_DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("config: MOSAIC_DATABASE_URL is required")
	}

	cfg := &Config{
		DatabaseURL:          dbURL,
		BridgeURL:            os.Getenv("MOSAIC_BRIDGE_URL"),
		NotificationsEnabled: true,
		DefaultSound:         envOr("MOSAIC_DEFAULT_SOUND", "default"),
		Timezone:             time.UTC,
		WeekBoundary:         timeutil.WeekMonFri,
		DefaultPrivacy:       envOr("MOSAIC_DEFAULT_PRIVACY", "private"),
		CheckInterval:        60 * time.Second,
		LogLevel:             envOr("MOSAIC_LOG_LEVEL", "info"),
	}

	if v := os.Getenv("MOSAIC_NOTIFICATIONS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: MOSAIC_NOTIFICATIONS_ENABLED: %w", err)
		}
		cfg.NotificationsEnabled = enabled
	}

	if tz := os.Getenv("MOSAIC_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("config: MOSAIC_TIMEZONE %q: %w", tz, err)
		}
		cfg.Timezone = loc
	}

	if wb := os.Getenv("MOSAIC_WEEK_BOUNDARY"); wb != "" {
		boundary := timeutil.WeekBoundary(wb)
		if !boundary.Valid() {
			return nil, fmt.Errorf("config: MOSAIC_WEEK_BOUNDARY %q: must be mon-fri, sun-sat, or mon-sun", wb)
		}
		cfg.WeekBoundary = boundary
	}

	switch cfg.DefaultPrivacy {
	case "public", "internal", "private":
	default:
		return nil, fmt.Errorf("config: MOSAIC_DEFAULT_PRIVACY %q: must be public, internal, or private", cfg.DefaultPrivacy)
	}

	if v := os.Getenv("MOSAIC_CHECK_INTERVAL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("config: MOSAIC_CHECK_INTERVAL %q: must be a positive number of seconds", v)
		}
		cfg.CheckInterval = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
