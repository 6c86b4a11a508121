package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	want := &Config{
		StoreBackend:           "sqlite",
		DefaultEpisodes:        10,
		PreviewCacheTTLSeconds: 300,
		PreviewLimit:           5,
		RangeTitle:             "{name} Season {season}",
		RangeDescription:       "Season {season} of {name}",
		EnableLogging:          true,
		LogRetentionDays:       30,
		LogLevel:               "info",
	}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv("HOME", t.TempDir())

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error = %v, want nil", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("ConfigPath() = %v, want absolute path", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".reelshelf" {
		t.Errorf("ConfigPath() = %v, want path inside .reelshelf", path)
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("ConfigPath() = %v, want path ending with config.json", path)
	}
}

func TestConfigPathEnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv(EnvPath, want)

	got, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error = %v", err)
	}
	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	t.Setenv(EnvPath, filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with non-existent file error = %v, want nil", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() with non-existent file mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(EnvPath, path)

	data := []byte(`{
		"store_backend": "memory",
		"default_episodes": 24,
		"enable_logging": false
	}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	want := DefaultConfig()
	want.StoreBackend = "memory"
	want.DefaultEpisodes = 24
	want.EnableLogging = false

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(EnvPath, path)

	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() with invalid JSON error = nil, want error")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	t.Setenv(EnvPath, path)

	cfg := DefaultConfig()
	cfg.StorePath = "/data/shelf.db"
	cfg.LogLevel = "debug"
	cfg.RangeTitle = "{name} S{season:02d}"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("Load() after Save() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Defaults", func(*Config) {}, ""},
		{"MemoryBackend", func(c *Config) { c.StoreBackend = "memory" }, ""},
		{"UnknownBackend", func(c *Config) { c.StoreBackend = "postgres" }, "StoreBackend"},
		{"ZeroEpisodes", func(c *Config) { c.DefaultEpisodes = 0 }, "DefaultEpisodes"},
		{"BadLevel", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"EmptyTitle", func(c *Config) { c.RangeTitle = "" }, "RangeTitle"},
		{"UnknownVariable", func(c *Config) { c.RangeTitle = "{show} {season}" }, "{show}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tc.wantErr)
			}
		})
	}
}

func TestDatabasePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	got, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath() error = %v", err)
	}
	if want := filepath.Join(home, ".reelshelf", "reelshelf.db"); got != want {
		t.Errorf("DatabasePath() = %q, want %q", got, want)
	}

	cfg.StorePath = "/tmp/other.db"
	if got, _ := cfg.DatabasePath(); got != "/tmp/other.db" {
		t.Errorf("DatabasePath() = %q, want explicit store_path", got)
	}
}

func TestPreviewTTL(t *testing.T) {
	cfg := &Config{PreviewCacheTTLSeconds: 90}
	if got := cfg.PreviewTTL(); got != 90*time.Second {
		t.Errorf("PreviewTTL() = %v, want 90s", got)
	}
}

func TestApplyRangeTemplates(t *testing.T) {
	cfg := DefaultConfig()
	if got, want := cfg.ApplyRangeTitle("Dark", 2), "Dark Season 2"; got != want {
		t.Errorf("ApplyRangeTitle() = %q, want %q", got, want)
	}
	if got, want := cfg.ApplyRangeDescription("Dark", 2), "Season 2 of Dark"; got != want {
		t.Errorf("ApplyRangeDescription() = %q, want %q", got, want)
	}

	cfg.RangeTitle = "{name}  -  S{season:02d} {unknown}"
	if got, want := cfg.ApplyRangeTitle("Dark", 3), "Dark - S03"; got != want {
		t.Errorf("ApplyRangeTitle() custom = %q, want %q", got, want)
	}
}
