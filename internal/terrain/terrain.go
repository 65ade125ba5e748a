// Package terrain generates the base terrain layer of a map. Each map type
// is an archetype: a parameter set plus a generation function built from
// the growth primitives in package world.
package terrain

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/talgya/hexmap/internal/world"
)

// Range is a half-open integer interval [Min, Max) to draw from.
type Range struct {
	Min int
	Max int
}

// Draw returns a uniform value in [Min, Max), or Min for an empty range.
func (r Range) Draw(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min)
}

// DriftMode selects how continent growth is broken up after expansion.
type DriftMode int

const (
	DriftNone     DriftMode = iota
	DriftErode              // release tiles deep inside landmasses
	DriftSeparate           // widen water between neighbouring continents
)

// Params holds the tile fractions and counts of an archetype. Fractions are
// shares of the whole map.
type Params struct {
	Land     float64
	Water    float64
	Drift    float64 // share of Water spent on continental drift
	Mountain float64
	Hills    float64

	Seeds       Range // continents, islands or central seeds
	IslandLand  float64
	IslandSeeds Range
	DriftMode   DriftMode

	LakeSeeds    Range // fixed number of lakes, when set
	LakeSize     Range // tiles per lake, used with LakeSeeds
	LakeDivisor  Range // otherwise lakes = water / divisor
	RangeDivisor Range // hill ranges = hills / divisor
}

// GenerateFunc builds a rows x columns terrain map.
type GenerateFunc func(rng *rand.Rand, rows, columns int, p Params) (*world.Map, error)

// Archetype couples parameters with a generator. Heightmap is optional and
// used when a heightmap-driven map is requested.
type Archetype struct {
	Params    Params
	Generate  GenerateFunc
	Heightmap GenerateFunc
}

var (
	mu         sync.RWMutex
	archetypes = map[world.MapType]Archetype{}
)

// Register installs or replaces the archetype of a map type.
func Register(t world.MapType, a Archetype) {
	mu.Lock()
	defer mu.Unlock()
	archetypes[t] = a
}

// Lookup returns the archetype of a map type.
func Lookup(t world.MapType) (Archetype, bool) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := archetypes[t]
	return a, ok
}

// Generate builds the terrain of a map type. With useHeightmap set, the
// archetype's heightmap generator is used when it has one.
func Generate(rng *rand.Rand, t world.MapType, rows, columns int, useHeightmap bool) (*world.Map, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("terrain: invalid dimensions %dx%d", columns, rows)
	}
	a, ok := Lookup(t)
	if !ok {
		return nil, fmt.Errorf("terrain: no generator for map type %s", t)
	}
	gen := a.Generate
	if useHeightmap && a.Heightmap != nil {
		gen = a.Heightmap
	}
	m, err := gen(rng, rows, columns, a.Params)
	if err != nil {
		return nil, fmt.Errorf("terrain %s: %w", t, err)
	}
	return m, nil
}

func init() {
	Register(world.TypeRandom, Archetype{Generate: generateRandom})
	Register(world.TypeHighland, Archetype{
		Params:   Params{Water: 0.15, Mountain: 0.1, Hills: 0.2, LakeDivisor: Range{5, 8}, RangeDivisor: Range{5, 8}},
		Generate: generateLakes,
	})
	Register(world.TypeLakes, Archetype{
		Params:   Params{Water: 0.2, Mountain: 0.06, Hills: 0.07, LakeDivisor: Range{15, 30}, RangeDivisor: Range{5, 8}},
		Generate: generateLakes,
	})
	Register(world.TypeInlandSea, Archetype{
		Params:    Params{Water: 0.3, Mountain: 0.1, Hills: 0.1, Seeds: Range{5, 16}, RangeDivisor: Range{8, 13}},
		Generate:  generateInlandSea,
		Heightmap: heightmapInlandSea,
	})
	Register(world.TypeSuperContinent, Archetype{
		Params: Params{Land: 0.7, Water: 0.15, Mountain: 0.05, Hills: 0.08, Seeds: Range{5, 15},
			LakeSeeds: Range{10, 21}, LakeSize: Range{4, 8}, RangeDivisor: Range{8, 13}},
		Generate:  generateSuperContinent,
		Heightmap: heightmapSuperContinent,
	})
	Register(world.TypeArchipelago, Archetype{
		Params: Params{Land: 0.8, Water: 0.5, Drift: 0.2, Mountain: 0.03, Hills: 0.06,
			Seeds: Range{20, 40}, DriftMode: DriftErode, LakeDivisor: Range{5, 8}, RangeDivisor: Range{5, 8}},
		Generate: generateContinents,
	})
	Register(world.TypeIslands, Archetype{
		Params: Params{Land: 0.45, Water: 0.1, Drift: 0.5, Mountain: 0.03, Hills: 0.06,
			Seeds: Range{8, 16}, DriftMode: DriftErode, LakeDivisor: Range{5, 8}, RangeDivisor: Range{5, 8}},
		Generate: generateContinents,
	})
	Register(world.TypeSmallContinents, Archetype{
		Params: Params{Land: 0.6, Water: 0.1, Drift: 0.5, Mountain: 0.04, Hills: 0.08,
			Seeds: Range{6, 10}, DriftMode: DriftSeparate, LakeDivisor: Range{5, 8}, RangeDivisor: Range{5, 8}},
		Generate: generateContinents,
	})
	Register(world.TypeContinents, Archetype{
		Params: Params{Land: 0.8, Water: 0.15, Drift: 0.5, Mountain: 0.04, Hills: 0.08,
			Seeds: Range{2, 6}, DriftMode: DriftSeparate, LakeDivisor: Range{5, 8}, RangeDivisor: Range{5, 8}},
		Generate: generateContinents,
	})
	Register(world.TypeContinentsIslands, Archetype{
		Params: Params{Land: 0.55, Water: 0.1, Drift: 0.5, Mountain: 0.04, Hills: 0.08,
			Seeds: Range{2, 4}, IslandLand: 0.12, IslandSeeds: Range{8, 16}, DriftMode: DriftSeparate,
			LakeDivisor: Range{5, 8}, RangeDivisor: Range{5, 8}},
		Generate: generateContinents,
	})
}

// addLakes seeds count lakes on plains and grows them to quota tiles.
func addLakes(rng *rand.Rand, m *world.Map, count, quota int) {
	if count < 1 {
		count = 1
	}
	seeds, quota := world.AddRandomTileSeed(rng, m, world.ShallowWater, world.Plain, count, quota)
	world.Expand(rng, m, seeds, quota, world.WaterRule(world.Plain))
}

// addRelief grows hill ranges on plains and raises part of them to mountains.
// Mountains only form from hills, so the hill quota includes them.
func addRelief(rng *rand.Rand, m *world.Map, p Params) {
	n := m.HexCount()
	mountains := int(float64(n) * p.Mountain)
	hills := int(float64(n)*p.Hills) + mountains
	if hills <= 0 {
		return
	}
	divisor := p.RangeDivisor.Draw(rng)
	ranges := hills
	if divisor > 0 {
		ranges = max(hills/divisor, 1)
	}
	seeds, quota := world.AddRandomTileSeed(rng, m, world.PlainHills, world.Plain, ranges, hills)
	world.Expand(rng, m, seeds, quota, world.HillRule(world.Plain, world.PlainHills))
	world.HillsToMountains(rng, m, mountains)
}

// lakeCount returns how many lakes to seed for a water quota.
func lakeCount(rng *rand.Rand, water int, p Params) int {
	d := p.LakeDivisor.Draw(rng)
	if d <= 0 {
		return 1
	}
	return max(water/d, 1)
}
