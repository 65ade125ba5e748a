package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talgya/hexmap/internal/world"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hexmap.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvAdminKey, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.Type != world.TypeContinents || cfg.Store.Path != "data/hexmap.db" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvAdminKey, "")
	path := writeConfig(t, `
generation:
  type: inland-sea
  size: LARGE
  temperature: hot
  humidity: DRY
  river_factor: 2.5
  riverbed: 2
  seed: 99
  use_heightmap: true
api:
  port: 9000
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := cfg.Generation
	if g.Type != world.TypeInlandSea || g.Size != world.SizeLarge || g.Temperature != world.TemperatureHot || g.Humidity != world.HumidityDry {
		t.Fatalf("generation tags = %+v", g)
	}
	if g.RiverFactor != 2.5 || g.Riverbed != 2 || g.Seed != 99 || !g.UseHeightmap {
		t.Fatalf("generation values = %+v", g)
	}
	if cfg.API.Port != 9000 || cfg.API.RateLimit != 10 {
		t.Fatalf("api = %+v", cfg.API)
	}
	if cfg.Tileset.TileWidth != 32 {
		t.Fatalf("tileset defaults lost: %+v", cfg.Tileset)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/other.db")
	t.Setenv(EnvAdminKey, "secret")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/tmp/other.db" || cfg.API.AdminKey != "secret" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	t.Setenv(EnvDB, "")
	cases := map[string]string{
		"unknown type":    "generation:\n  type: pangaea\n",
		"riverbed":        "generation:\n  riverbed: 9\n",
		"negative rivers": "generation:\n  river_factor: -1\n",
		"port":            "api:\n  port: 0\n",
		"tileset":         "tileset:\n  tile_width: 0\n",
		"log level":       "log_level: loud\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(missing)
	if !errors.Is(err, fs.ErrNotExist) || !strings.Contains(err.Error(), missing) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Store.Path = ""
	cfg.API.Port = -1
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "store path") || !strings.Contains(err.Error(), "port") {
		t.Fatalf("Validate = %v", err)
	}
}
