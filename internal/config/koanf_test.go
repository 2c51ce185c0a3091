// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// isolate runs the test in an empty directory with no config file selected.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "HTTP_PORT", want: "server.port"},
		{env: "HTTP_REQUEST_TIMEOUT", want: "server.request_timeout"},
		{env: "CORS_ORIGINS", want: "security.cors_origins"},
		{env: "RESOURCE_BACKEND", want: "resources.backend"},
		{env: "REDIS_ADDR", want: "resources.redis.addr"},
		{env: "HISTORY_RESOURCE", want: "resources.names.history"},
		{env: "BREAKER_FAILURE_RATIO", want: "resources.breaker.failure_ratio"},
		{env: "RECO_STRATEGY", want: "recommend.strategy"},
		{env: "reco_slot_count", want: "recommend.slot_count"},
		{env: "LOG_LEVEL", want: "logging.level"},
		{env: "PATH", want: ""},
		{env: "HOME", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	t.Run("no config file exists", func(t *testing.T) {
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte("server: {}"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		defer os.Remove(path)

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		custom := filepath.Join(dir, "custom.yaml")
		if err := os.WriteFile(custom, []byte("server: {}"), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, custom)

		if got := findConfigFile(); got != custom {
			t.Errorf("findConfigFile() = %q, want %q", got, custom)
		}
	})

	t.Run("CONFIG_PATH to a missing file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("LoadWithKoanf() = %+v, want defaults", cfg)
	}
}

func TestLoadWithKoanf_EnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RESOURCE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("RECO_STRATEGY", "item")
	t.Setenv("RECO_SLOT_COUNT", "8")
	t.Setenv("RECO_SKIP_IMPOSSIBLE", "false")
	t.Setenv("BREAKER_MIN_REQUESTS", "4")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 2*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 2s", cfg.Server.RequestTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Resources.Backend != "redis" || cfg.Resources.Redis.Addr != "cache:6380" || cfg.Resources.Redis.DB != 2 {
		t.Errorf("Resources = %+v", cfg.Resources)
	}
	if cfg.Recommend.Strategy != "item" || cfg.Recommend.SlotCount != 8 || cfg.Recommend.SkipImpossible {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Resources.Breaker.MinRequests != 4 {
		t.Errorf("Breaker.MinRequests = %d, want 4", cfg.Resources.Breaker.MinRequests)
	}
	wantOrigins := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, wantOrigins) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, wantOrigins)
	}

	// Unset values keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Resources.Names.Catalog != "articles_metadata.csv" {
		t.Errorf("Names.Catalog = %q, want default", cfg.Resources.Names.Catalog)
	}
}

const fileConfig = `
server:
  port: 8888
  host: "127.0.0.1"

resources:
  backend: badger
  badger_path: /var/lib/lectern/badger
  names:
    model: model-v2.json

recommend:
  top_n: 20
  catalog_rule: "article.words_count > 50"

logging:
  level: warn
`

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "lectern.yaml")
	if err := os.WriteFile(path, []byte(fileConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8888 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Resources.Backend != "badger" || cfg.Resources.BadgerPath != "/var/lib/lectern/badger" {
		t.Errorf("Resources = %+v", cfg.Resources)
	}
	if cfg.Resources.Names.Model != "model-v2.json" {
		t.Errorf("Names.Model = %q, want model-v2.json", cfg.Resources.Names.Model)
	}
	if cfg.Resources.Names.History != "articles_by_user.csv" {
		t.Errorf("Names.History = %q, want the default", cfg.Resources.Names.History)
	}
	if cfg.Recommend.TopN != 20 || cfg.Recommend.CatalogRule != "article.words_count > 50" {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "lectern.yaml")
	if err := os.WriteFile(path, []byte(fileConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("RECO_TOP_N", "3")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 (env)", cfg.Server.Port)
	}
	if cfg.Recommend.TopN != 3 {
		t.Errorf("Recommend.TopN = %d, want 3 (env)", cfg.Recommend.TopN)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1 (file)", cfg.Server.Host)
	}
}

func TestLoadWithKoanf_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad port", env: map[string]string{"HTTP_PORT": "0"}, wantErr: "HTTP_PORT"},
		{name: "bad strategy", env: map[string]string{"RECO_STRATEGY": "random"}, wantErr: "RECO_STRATEGY"},
		{name: "bad backend", env: map[string]string{"RESOURCE_BACKEND": "gcs"}, wantErr: "RESOURCE_BACKEND"},
		{name: "unparsable duration", env: map[string]string{"HTTP_REQUEST_TIMEOUT": "soon"}, wantErr: "unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatalf("LoadWithKoanf() = nil, want error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadWithKoanf() error = %q, want it to mention %s", err, tt.wantErr)
			}
		})
	}
}
