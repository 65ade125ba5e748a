// Package mapgen is the entry point for map generation. It runs the terrain
// archetype for the requested map type, shapes the landscape and flattens
// the result into MapData.
package mapgen

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/talgya/hexmap/internal/landscape"
	"github.com/talgya/hexmap/internal/mapdata"
	"github.com/talgya/hexmap/internal/terrain"
	"github.com/talgya/hexmap/internal/world"
)

// Options describe one generation run.
type Options struct {
	Seed         int64
	Type         world.MapType
	Size         world.MapSize
	Temperature  world.Temperature
	Humidity     world.Humidity
	RiverFactor  float64
	Riverbed     int
	UseHeightmap bool
}

// Generator produces maps from a fixed seed. Every call starts a fresh
// random source, so equal arguments give equal maps.
type Generator struct {
	Seed         int64
	Riverbed     int
	UseHeightmap bool
}

// New returns a generator with the default riverbed width.
func New(seed int64) *Generator {
	return &Generator{Seed: seed, Riverbed: landscape.DefaultRiverbed}
}

// Generate builds a map of the given type, size and climate. riverFactor
// scales the number of rivers with the map size; zero disables rivers.
func (g *Generator) Generate(t world.MapType, size world.MapSize, temp world.Temperature, hum world.Humidity, riverFactor float64) (*mapdata.MapData, error) {
	return Generate(Options{
		Seed:         g.Seed,
		Type:         t,
		Size:         size,
		Temperature:  temp,
		Humidity:     hum,
		RiverFactor:  riverFactor,
		Riverbed:     g.Riverbed,
		UseHeightmap: g.UseHeightmap,
	})
}

// Generate runs one generation with opts.
func Generate(opts Options) (*mapdata.MapData, error) {
	rows, columns, err := world.ConvertMapSize(opts.Size)
	if err != nil {
		return nil, err
	}
	if opts.Temperature < world.TemperatureCold || opts.Temperature > world.TemperatureHot {
		return nil, fmt.Errorf("invalid temperature %d", opts.Temperature)
	}
	if opts.Humidity < world.HumidityWet || opts.Humidity > world.HumidityDry {
		return nil, fmt.Errorf("invalid humidity %d", opts.Humidity)
	}
	if opts.RiverFactor < 0 || math.IsNaN(opts.RiverFactor) || math.IsInf(opts.RiverFactor, 0) {
		return nil, fmt.Errorf("invalid river factor %v", opts.RiverFactor)
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(opts.Seed))

	m, err := terrain.Generate(rng, opts.Type, rows, columns, opts.UseHeightmap)
	if err != nil {
		return nil, fmt.Errorf("generate %s terrain: %w", opts.Type, err)
	}

	res := landscape.Shape(rng, m, landscape.Options{
		Size:        opts.Size,
		Temperature: opts.Temperature,
		Humidity:    opts.Humidity,
		RiverFactor: opts.RiverFactor,
		Riverbed:    opts.Riverbed,
	})

	md := mapdata.FromMap(m, res.Directions)
	md.Seed = opts.Seed
	md.Type = opts.Type
	md.Size = opts.Size
	md.Temperature = opts.Temperature
	md.Humidity = opts.Humidity
	if err := md.Validate(); err != nil {
		return nil, fmt.Errorf("generated map: %w", err)
	}

	slog.Debug("map generated",
		"type", opts.Type, "size", opts.Size, "seed", opts.Seed,
		"rivers", len(res.Rivers), "elapsed", time.Since(start))
	return md, nil
}
