package config_test

import (
	"testing"
	"time"

	"github.com/jarosser06/mosaic/internal/config"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("MOSAIC_DATABASE_URL", "")
	if _, err := config.Load(); err == nil {
		t.Fatal("Load() should fail without MOSAIC_DATABASE_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MOSAIC_DATABASE_URL", "/tmp/mosaic.db")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timezone != time.UTC {
		t.Errorf("Timezone = %v, want UTC", cfg.Timezone)
	}
	if cfg.WeekBoundary != timeutil.WeekMonFri {
		t.Errorf("WeekBoundary = %q, want mon-fri", cfg.WeekBoundary)
	}
	if cfg.DefaultPrivacy != "private" {
		t.Errorf("DefaultPrivacy = %q, want private", cfg.DefaultPrivacy)
	}
	if cfg.CheckInterval != 60*time.Second {
		t.Errorf("CheckInterval = %v, want 60s", cfg.CheckInterval)
	}
	if !cfg.NotificationsEnabled {
		t.Error("NotificationsEnabled should default to true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MOSAIC_DATABASE_URL", "/tmp/mosaic.db")
	t.Setenv("MOSAIC_TIMEZONE", "America/New_York")
	t.Setenv("MOSAIC_WEEK_BOUNDARY", "sun-sat")
	t.Setenv("MOSAIC_CHECK_INTERVAL", "15")
	t.Setenv("MOSAIC_NOTIFICATIONS_ENABLED", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timezone.String() != "America/New_York" {
		t.Errorf("Timezone = %v", cfg.Timezone)
	}
	if cfg.WeekBoundary != timeutil.WeekSunSat {
		t.Errorf("WeekBoundary = %q", cfg.WeekBoundary)
	}
	if cfg.CheckInterval != 15*time.Second {
		t.Errorf("CheckInterval = %v", cfg.CheckInterval)
	}
	if cfg.NotificationsEnabled {
		t.Error("NotificationsEnabled should be false")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"MOSAIC_TIMEZONE":        "Mars/Olympus",
		"MOSAIC_WEEK_BOUNDARY":   "tue-wed",
		"MOSAIC_DEFAULT_PRIVACY": "secret",
		"MOSAIC_CHECK_INTERVAL":  "-5",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("MOSAIC_DATABASE_URL", "/tmp/mosaic.db")
			t.Setenv(key, val)
			if _, err := config.Load(); err == nil {
				t.Errorf("Load() should reject %s=%q", key, val)
			}
		})
	}
}
