// Heightmap-driven generators: a noise field is thresholded at a moving
// water level until the land/water split meets the archetype's target.
package terrain

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/talgya/hexmap/internal/heightmap"
	"github.com/talgya/hexmap/internal/world"
)

const (
	// MaxSeaLevelSteps bounds the water level search.
	MaxSeaLevelSteps = 100

	seaLevelStep       = 0.02
	landmassThreshold  = 25
	superContinentLand = 0.85
	perlinWeight       = 0.75
	superScale         = 0.08
	superOctaves       = 6
)

// classify marks tiles at or below level as water and the rest as plain,
// returning the water share.
func classify(m *world.Map, f *heightmap.Field, level float64) float64 {
	water := 0
	for i := range m.Hexes {
		h := &m.Hexes[i]
		h.Elevation = f.Values[i]
		if f.Values[i] <= level {
			h.Terrain = world.ShallowWater
			water++
		} else {
			h.Terrain = world.Plain
		}
	}
	return float64(water) / float64(len(m.Hexes))
}

func landmasses(m *world.Map) int {
	n, _ := world.CountLandmasses(m.TerrainCodes(), m.Columns, m.Rows, world.WaterCodes, landmassThreshold)
	return n
}

// heightmapSuperContinent lowers the water level from 1.0 until exactly one
// large landmass remains and water covers at most 1 - 0.85 of the map.
func heightmapSuperContinent(rng *rand.Rand, rows, columns int, p Params) (*world.Map, error) {
	g := heightmap.NewGenerator(rng.Int63())
	noise, err := g.PerlinNoise(columns, rows, superScale, superOctaves, heightmap.DefaultPersistence, heightmap.DefaultLacunarity)
	if err != nil {
		return nil, err
	}
	mask, err := g.EllipticContinent(columns, rows, heightmap.DefaultPercent)
	if err != nil {
		return nil, err
	}
	field, err := heightmap.Blend(noise, mask, perlinWeight)
	if err != nil {
		return nil, err
	}

	m := world.NewMap(rows, columns, world.ShallowWater)
	level := 1.0
	converged := false
	for step := 0; step < MaxSeaLevelSteps; step++ {
		water := classify(m, field, level)
		if landmasses(m) == 1 && water <= 1-superContinentLand {
			converged = true
			break
		}
		level -= seaLevelStep
	}
	if !converged {
		slog.Debug("sea level search did not converge", "level", level)
	}

	raiseByElevation(m, p)
	world.ShallowToDeepWater(m)
	return m, nil
}

// heightmapInlandSea blends simplex noise with an inverted elliptic mask so
// the middle of the map sinks, then raises the water level until the sea
// reaches its share of the map.
func heightmapInlandSea(rng *rand.Rand, rows, columns int, p Params) (*world.Map, error) {
	g := heightmap.NewGenerator(rng.Int63())
	noise, err := g.SimplexNoise(columns, rows, superScale, superOctaves, heightmap.DefaultPersistence, heightmap.DefaultLacunarity)
	if err != nil {
		return nil, err
	}
	mask, err := g.EllipticContinent(columns, rows, heightmap.DefaultPercent*0.6)
	if err != nil {
		return nil, err
	}
	field, err := heightmap.Blend(noise, heightmap.Invert(mask), 1-perlinWeight)
	if err != nil {
		return nil, err
	}

	m := world.NewMap(rows, columns, world.Plain)
	level := 0.0
	for step := 0; step < MaxSeaLevelSteps; step++ {
		if classify(m, field, level) >= p.Water {
			break
		}
		level += seaLevelStep
	}

	raiseByElevation(m, p)
	world.ShallowToDeepWater(m)
	return m, nil
}

// raiseByElevation turns the highest land tiles into mountains and the next
// highest into hills. Ties keep grid order.
func raiseByElevation(m *world.Map, p Params) {
	land := m.Filter(func(h *world.Hex) bool { return !h.Terrain.IsWater() })
	sort.SliceStable(land, func(i, j int) bool { return land[i].Elevation > land[j].Elevation })

	n := float64(m.HexCount())
	mountains := min(int(n*p.Mountain), len(land))
	hills := min(int(n*p.Hills), len(land)-mountains)
	for i := 0; i < mountains; i++ {
		land[i].Terrain = world.Mountain
	}
	for i := mountains; i < mountains+hills; i++ {
		land[i].Terrain = world.PlainHills
	}
}
