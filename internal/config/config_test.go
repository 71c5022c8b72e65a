package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/electoral/pkg/errors"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{EnvSource, EnvAddr, EnvRedisAddr, EnvMongoURI} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Data.Source != "data" {
		t.Errorf("Source = %q, want data", cfg.Data.Source)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Server.SessionTTL.Duration != 2*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
[data]
source = "sqlite:./electoral.db"

[render]
width = 1200

[server]
addr = ":9000"
cors_origins = ["https://example.org"]
session_ttl = "30m"

[cache]
backend = "none"
ttl = "1h"
key_prefix = "staging:"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Data.Source != "sqlite:./electoral.db" {
		t.Errorf("Source = %q", cfg.Data.Source)
	}
	if cfg.Render.Width != 1200 {
		t.Errorf("Width = %g", cfg.Render.Width)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://example.org" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.SessionTTL.Duration != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Cache.KeyPrefix != "staging:" {
		t.Errorf("Cache.KeyPrefix = %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	isolate(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	if err := os.MkdirAll(filepath.Join(dir, "electoral"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "electoral", "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nwidth = 640\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Render.Width != 640 {
		t.Errorf("Width = %g, want 640", cfg.Render.Width)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "[data]\nsource = \"dir:./a\"\n[server]\naddr = \":1\"\n")
	t.Setenv(EnvSource, "https://example.org/data")
	t.Setenv(EnvAddr, ":2")
	t.Setenv(EnvRedisAddr, "localhost:6379")
	t.Setenv(EnvMongoURI, "mongodb://localhost/electoral")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Data.Source != "https://example.org/data" {
		t.Errorf("Source = %q", cfg.Data.Source)
	}
	if cfg.Server.Addr != ":2" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Data.MongoURI != "mongodb://localhost/electoral" {
		t.Errorf("MongoURI = %q", cfg.Data.MongoURI)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"bad toml", "[data\nsource = 1", errors.ErrCodeInvalidFormat},
		{"unknown key", "[render]\nheight = 3\n", errors.ErrCodeInvalidFormat},
		{"bad duration", "[server]\nsession_ttl = \"soon\"\n", errors.ErrCodeInvalidFormat},
		{"zero width", "[render]\nwidth = 0\n", errors.ErrCodeInvalidInput},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load() error = %v, want NOT_FOUND", err)
	}
}
