package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/symgraph/pkg/errors"
)

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse:\n%s\nerror: %v", buf.String(), err)
	}
	if !reflect.DeepEqual(got, Default()) {
		t.Errorf("round trip = %+v, want %+v", got, Default())
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
[log]
level = "debug"

[cse]
prefix = "w_"
suffix = "_k"

[render]
formats = ["dot", "svg"]
detailed = true

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"
ttl = "2h"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
	if cfg.CSE.Prefix != "w_" || cfg.CSE.Suffix != "_k" {
		t.Errorf("CSE = %+v", cfg.CSE)
	}
	if !cfg.Render.Detailed || len(cfg.Render.Formats) != 2 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if !cfg.Graph.Memo || !cfg.Cache.Enabled {
		t.Error("unset keys should keep their defaults")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"syntax", `[log`, "decode config"},
		{"unknown key", "[log]\ncolour = true", "log.colour"},
		{"level", "[log]\nlevel = \"loud\"", "log.level"},
		{"prefix", "[cse]\nprefix = \"a b\"", "cse.prefix"},
		{"format", "[render]\nformats = [\"png\"]", "render.formats"},
		{"backend", "[cache]\nbackend = \"memcached\"", "cache.backend"},
		{"redis url", "[cache]\nbackend = \"redis\"", "redis_url"},
		{"mongo url", "[cache]\nbackend = \"mongodb\"", "mongo_url"},
		{"mongo database", "[cache]\nmongo_database = \"a b\"", "cache.mongo_database"},
		{"ttl", "[cache]\nttl = \"soon\"", "decode config"},
		{"serve addr", "[serve]\naddr = \"8080\"", "serve.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Parse error = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestParseMongo(t *testing.T) {
	cfg, err := Parse([]byte(`
[cache]
backend = "mongodb"
mongo_url = "mongodb://localhost:27017"
mongo_database = "graphs"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cache.Backend != BackendMongo || cfg.Cache.MongoDatabase != "graphs" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := Load(path); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) = %v, want NOT_FOUND", err)
	}
	cfg, err := LoadOrDefault(path)
	if err != nil || !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("LoadOrDefault(missing) = %+v, %v", cfg, err)
	}

	want := Default()
	want.CSE.Prefix = "tmp"
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CSE.Prefix != "tmp" {
		t.Errorf("Load prefix = %q", got.CSE.Prefix)
	}

	if err := os.WriteFile(path, []byte("[graph]\nmemo = 3"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("LoadOrDefault(bad) = %v, want INVALID_CONFIG", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/xdg/symgraph/config.toml" {
		t.Errorf("DefaultPath() = %q", path)
	}
}
