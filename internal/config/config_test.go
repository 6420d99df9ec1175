package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "MONGODB_URI", "REDIS_URL", "JWT_SECRET",
		"INVITE_WEEKLY_QUOTA", "AWAY_PAGE_SIZE",
		"METADATA_FETCH_TIMEOUT", "METADATA_FETCH_ENABLED",
		"CULTIVATE_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("Port = %q, want 3001", cfg.Port)
	}
	if cfg.MongoURI != "mongodb://localhost:27017/cultivate" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.InviteWeeklyQuota != 5 {
		t.Errorf("InviteWeeklyQuota = %d, want 5", cfg.InviteWeeklyQuota)
	}
	if cfg.AwayPageSize != 20 {
		t.Errorf("AwayPageSize = %d, want 20", cfg.AwayPageSize)
	}
	if cfg.MetadataFetchTimeout != 8*time.Second {
		t.Errorf("MetadataFetchTimeout = %v, want 8s", cfg.MetadataFetchTimeout)
	}
	if !cfg.MetadataFetchEnabled {
		t.Error("MetadataFetchEnabled should default to true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("INVITE_WEEKLY_QUOTA", "2")
	t.Setenv("METADATA_FETCH_ENABLED", "false")
	t.Setenv("METADATA_FETCH_TIMEOUT", "3s")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.InviteWeeklyQuota != 2 {
		t.Errorf("InviteWeeklyQuota = %d, want 2", cfg.InviteWeeklyQuota)
	}
	if cfg.MetadataFetchEnabled {
		t.Error("MetadataFetchEnabled should be false")
	}
	if cfg.MetadataFetchTimeout != 3*time.Second {
		t.Errorf("MetadataFetchTimeout = %v, want 3s", cfg.MetadataFetchTimeout)
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("INVITE_WEEKLY_QUOTA", "lots")
	t.Setenv("METADATA_FETCH_ENABLED", "maybe")

	cfg := Load()

	if cfg.InviteWeeklyQuota != 5 {
		t.Errorf("InviteWeeklyQuota = %d, want default 5", cfg.InviteWeeklyQuota)
	}
	if !cfg.MetadataFetchEnabled {
		t.Error("MetadataFetchEnabled should fall back to default true")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "port: \"8080\"\naway_page_size: 50\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CULTIVATE_CONFIG", path)

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want YAML override 8080", cfg.Port)
	}
	if cfg.AwayPageSize != 50 {
		t.Errorf("AwayPageSize = %d, want YAML override 50", cfg.AwayPageSize)
	}
	// Fields absent from the file keep their env/default values.
	if cfg.InviteWeeklyQuota != 5 {
		t.Errorf("InviteWeeklyQuota = %d, want 5", cfg.InviteWeeklyQuota)
	}
}

func TestLoadMissingYAMLIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("CULTIVATE_CONFIG", "/nonexistent/config.yaml")

	cfg := Load()
	if cfg.Port != "3001" {
		t.Errorf("Port = %q, want default 3001", cfg.Port)
	}
}
