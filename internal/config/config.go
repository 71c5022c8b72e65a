// Package config loads electoral settings.
//
// Settings come from four layers, each overriding the previous one:
// built-in defaults, an optional TOML file, environment variables (a .env
// file in the working directory is read first) and command-line flags. The
// last layer is applied by the CLI after Load returns.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/session"
)

const appName = "electoral"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Environment variables read by Load.
const (
	EnvSource    = "ELECTORAL_SOURCE"
	EnvAddr      = "ELECTORAL_ADDR"
	EnvRedisAddr = "ELECTORAL_REDIS_ADDR"
	EnvMongoURI  = "ELECTORAL_MONGO_URI"
)

// Config holds application configuration.
type Config struct {
	Data   Data   `toml:"data"`
	Render Render `toml:"render"`
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`

	// Path is the file the config was read from, empty when none was.
	Path string `toml:"-"`
}

// Data selects where election tables are read from.
type Data struct {
	Source   string `toml:"source"`
	MongoURI string `toml:"mongo_uri"`
}

// Render holds chart defaults.
type Render struct {
	Width float64 `toml:"width"`
}

// Server configures "electoral serve".
type Server struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
	SessionTTL  Duration `toml:"session_ttl"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`

	// KeyPrefix namespaces every key, for deployments sharing one Redis.
	KeyPrefix string `toml:"key_prefix"`
}

// Duration is a time.Duration written as "90m" or "2h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data:   Data{Source: "data"},
		Render: Render{Width: chart.DefaultWidth},
		Server: Server{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
			SessionTTL:  Duration{session.DefaultTTL},
		},
		Cache: Cache{Backend: CacheFile},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/electoral/config.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path reads the default location if it exists; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidFormat, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	c.Path = path
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSource); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Data.MongoURI = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		if c.Cache.Backend == CacheFile {
			c.Cache.Backend = CacheRedis
		}
	}
}

// Validate checks the combined configuration.
func (c *Config) Validate() error {
	if c.Data.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "data source is required")
	}
	if c.Render.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render width must be positive, got %g", c.Render.Width)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server address is required")
	}
	if c.Server.SessionTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "session_ttl cannot be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl cannot be negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	return nil
}
