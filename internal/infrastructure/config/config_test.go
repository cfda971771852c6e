package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Match.Threshold != 0.35 || cfg.Match.Limit != 10 {
		t.Errorf("match = %+v, want threshold 0.35 limit 10", cfg.Match)
	}
	if cfg.Catalog.PageSize != 10000 {
		t.Errorf("page size = %d, want 10000", cfg.Catalog.PageSize)
	}
	if cfg.Catalog.RefreshInterval != 5*time.Minute {
		t.Errorf("refresh interval = %v, want 5m", cfg.Catalog.RefreshInterval)
	}
	if cfg.DedupWindow != time.Second {
		t.Errorf("dedup window = %v, want 1s", cfg.DedupWindow)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_BASE_URL", "https://catalog.example.com/api")
	t.Setenv("MATCH_THRESHOLD", "0.2")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("APP_REDIS_ENABLED", "true")
	t.Setenv("LOG_MODE", "concise")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Catalog.BaseURL != "https://catalog.example.com/api" {
		t.Errorf("base url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Match.Threshold != 0.2 {
		t.Errorf("threshold = %v, want 0.2", cfg.Match.Threshold)
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("rate limit window = %v, want 30s", cfg.RateLimit.Window)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis should be enabled through APP_REDIS_ENABLED")
	}
	if cfg.Log.Mode != "concise" || cfg.Log.Level != "info" || cfg.Log.File != "logs/app.log" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"threshold", map[string]string{"MATCH_THRESHOLD": "1.5"}, "threshold"},
		{"base url", map[string]string{"CATALOG_BASE_URL": "not a url"}, "base url"},
		{"page size", map[string]string{"CATALOG_PAGE_SIZE": "0"}, "page size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
