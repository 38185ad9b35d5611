package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `{
		"seed": 42,
		"region": "22041-001",
		"time_scale": 4,
		"driver_load_timeout": "750ms",
		"store": {"driver": "postgres", "postgres_url": "postgres://db/cm"},
		"allowed_origins": "https://a.example.com,https://b.example.com",
		"logging": {"level": "debug", "format": "json"}
	}`)

	cfg, err := LoadConfig(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Seed != 42 || cfg.RegionHint != "22041-001" || cfg.TimeScale != 4 {
		t.Errorf("unexpected session settings %+v", cfg)
	}
	if cfg.DriverLoadTimeout != 750*time.Millisecond {
		t.Errorf("driver_load_timeout = %v", cfg.DriverLoadTimeout)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.PostgresURL != "postgres://db/cm" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.MongoCollection != "driver_photos" {
		t.Errorf("unset keys should keep defaults, got %q", cfg.Store.MongoCollection)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("allowed_origins = %v", cfg.AllowedOrigins)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadConfig(viper.New(), "")
	if err != nil {
		t.Fatalf("missing default config file should not fail: %v", err)
	}
	if cfg.Store.Driver != "memory" || cfg.TimeScale != 1 || cfg.DriverLoadTimeout != 10*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.FetchTimeout != 3*time.Second || cfg.OutputFormat != "json" || cfg.HTTPAddr != ":8080" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("COURIERMATCH_REGION", "30140-071")
	t.Setenv("COURIERMATCH_STORE_DRIVER", "mongo")

	cfg, err := LoadConfig(viper.New(), writeConfig(t, `{"region": "01000-000"}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RegionHint != "30140-071" || cfg.Store.Driver != "mongo" {
		t.Errorf("env overrides not applied: region %q, store %q", cfg.RegionHint, cfg.Store.Driver)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad store", `{"store": {"driver": "sqlite"}}`, "unsupported store driver"},
		{"bad format", `{"output_format": "csv"}`, "unsupported output format"},
		{"zero time scale", `{"time_scale": 0}`, "time_scale must be at least"},
		{"tiny time scale", `{"time_scale": 1e-10}`, "time_scale must be at least"},
		{"cloud json", `{"output_destination": "cloud", "output_format": "json"}`, "requires output_format parquet"},
		{"bad destination", `{"output_destination": "ftp"}`, "unsupported output destination"},
		{"negative timeout", `{"fetch_timeout": "-1s"}`, "timeouts must not be negative"},
		{"malformed", `{`, "error reading config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(viper.New(), writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("explicit missing config file should fail")
	}
}
