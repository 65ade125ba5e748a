// Package config loads hexmapgen settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexmap/internal/landscape"
	"github.com/talgya/hexmap/internal/tiled"
	"github.com/talgya/hexmap/internal/world"
)

// Environment variables that override file settings.
const (
	EnvDB           = "HEXMAP_DB"
	EnvAdminKey     = "HEXMAP_ADMIN_KEY"
	EnvRandomOrgKey = "RANDOM_ORG_API_KEY"
)

// Config is the full configuration.
type Config struct {
	Generation Generation           `yaml:"generation"`
	Store      Store                `yaml:"store"`
	API        API                  `yaml:"api"`
	Tileset    tiled.TilesetOptions `yaml:"tileset"`
	LogLevel   string               `yaml:"log_level"`
}

// Generation holds the default generation request.
type Generation struct {
	Type         world.MapType     `yaml:"type"`
	Size         world.MapSize     `yaml:"size"`
	Temperature  world.Temperature `yaml:"temperature"`
	Humidity     world.Humidity    `yaml:"humidity"`
	RiverFactor  float64           `yaml:"river_factor"`
	Riverbed     int               `yaml:"riverbed"`
	Seed         int64             `yaml:"seed"`
	UseHeightmap bool              `yaml:"use_heightmap"`
}

// Store configures the SQLite map store.
type Store struct {
	Path string `yaml:"path"`
}

// API configures the HTTP server.
type API struct {
	Port            int    `yaml:"port"`
	AdminKey        string `yaml:"admin_key"`
	RateLimit       int    `yaml:"rate_limit"`
	RateWindowSecs  int    `yaml:"rate_window_secs"`
	RandomOrgAPIKey string `yaml:"random_org_api_key"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Generation: Generation{
			Type:        world.TypeContinents,
			Size:        world.SizeSmall,
			Temperature: world.TemperatureNormal,
			Humidity:    world.HumidityNormal,
			RiverFactor: 1,
			Riverbed:    landscape.DefaultRiverbed,
		},
		Store: Store{Path: "data/hexmap.db"},
		API: API{
			Port:           8080,
			RateLimit:      10,
			RateWindowSecs: 60,
		},
		Tileset:  tiled.DefaultTileset(),
		LogLevel: "info",
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(EnvAdminKey); v != "" {
		c.API.AdminKey = v
	}
	if v := os.Getenv(EnvRandomOrgKey); v != "" {
		c.API.RandomOrgAPIKey = v
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	g := c.Generation
	if _, _, err := world.ConvertMapSize(g.Size); err != nil {
		errs = append(errs, err)
	}
	if _, err := g.Type.MarshalText(); err != nil {
		errs = append(errs, err)
	}
	if _, err := g.Temperature.MarshalText(); err != nil {
		errs = append(errs, err)
	}
	if _, err := g.Humidity.MarshalText(); err != nil {
		errs = append(errs, err)
	}
	if g.RiverFactor < 0 {
		errs = append(errs, fmt.Errorf("river_factor must not be negative, got %v", g.RiverFactor))
	}
	if g.Riverbed < 1 || g.Riverbed > landscape.MaxRiverbed {
		errs = append(errs, fmt.Errorf("riverbed must be in [1,%d], got %d", landscape.MaxRiverbed, g.Riverbed))
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("store path is empty"))
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api port %d out of range", c.API.Port))
	}
	if c.API.RateLimit <= 0 || c.API.RateWindowSecs <= 0 {
		errs = append(errs, errors.New("api rate limit and window must be positive"))
	}
	if err := c.Tileset.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
