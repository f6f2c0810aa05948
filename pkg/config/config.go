// Package config loads the symgraph CLI configuration from TOML.
//
// The file lives at $XDG_CONFIG_HOME/symgraph/config.toml (falling back to
// ~/.config/symgraph/config.toml). Every key is optional; missing keys keep
// their [Default] value.
//
//	[log]
//	level = "debug"
//
//	[cse]
//	prefix = "w_"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
package config

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
	"github.com/matzehuels/symgraph/pkg/pipeline"
)

const appName = "symgraph"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongodb"
)

// Backends lists every supported cache backend.
var Backends = []string{BackendFile, BackendRedis, BackendMongo}

// Config is the complete CLI configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Graph  GraphConfig  `toml:"graph"`
	CSE    CSEConfig    `toml:"cse"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// GraphConfig controls how demo graphs are built.
type GraphConfig struct {
	// Memo enables the builder's hash-consing cache.
	Memo bool `toml:"memo"`
}

// CSEConfig names the variables introduced by shared-subexpression
// extraction.
type CSEConfig struct {
	Prefix string `toml:"prefix"`
	Suffix string `toml:"suffix"`
}

// RenderConfig sets render defaults.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Detailed bool     `toml:"detailed"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Enabled       bool     `toml:"enabled"`
	Backend       string   `toml:"backend"`
	RedisURL      string   `toml:"redis_url"`
	MongoURL      string   `toml:"mongo_url"`
	MongoDatabase string   `toml:"mongo_database"`
	Scope         string   `toml:"scope"`
	TTL           Duration `toml:"ttl"`
}

// ServeConfig sets defaults for the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
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
		Log:    LogConfig{Level: "info"},
		Graph:  GraphConfig{Memo: true},
		CSE:    CSEConfig{Prefix: transform.DefaultSharedPrefix},
		Render: RenderConfig{Formats: []string{pipeline.FormatSVG}},
		Cache: CacheConfig{
			Enabled: true,
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Serve: ServeConfig{Addr: "127.0.0.1:8080"},
	}
}

// DefaultPath returns the XDG location of the config file.
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

// Load reads and validates the file at path. A missing file is NOT_FOUND.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but returns Default when the file does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes TOML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field. Errors carry INVALID_CONFIG.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	if err := errors.ValidateIdentifierPart("cse.prefix", c.CSE.Prefix); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cse.prefix")
	}
	if err := errors.ValidateIdentifierPart("cse.suffix", c.CSE.Suffix); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cse.suffix")
	}
	for _, f := range c.Render.Formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.formats")
		}
	}
	if !slices.Contains(Backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of %s, got %q",
			strings.Join(Backends, ", "), c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if c.Cache.Backend == BackendMongo && c.Cache.MongoURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_url is required for the mongodb backend")
	}
	if c.Cache.MongoDatabase != "" {
		if err := errors.ValidateIdentifierPart("cache.mongo_database", c.Cache.MongoDatabase); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.mongo_database")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if _, _, err := net.SplitHostPort(c.Serve.Addr); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "serve.addr")
	}
	return nil
}

// LogLevel returns the parsed log level, or info if it does not parse.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
