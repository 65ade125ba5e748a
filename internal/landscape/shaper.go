// Package landscape shapes a generated terrain map: it adds rivers, paints
// the polar and climate belts, and scatters landscape features by climate
// zone, all driven by the map's size, temperature and humidity tags.
package landscape

import (
	"math/rand"

	"github.com/talgya/hexmap/internal/world"
)

// DefaultRiverbed is the buffer width kept free around a river bed.
const DefaultRiverbed = 3

const (
	factorGrass  = 0.5
	factorDesert = 0.07
	factorReef   = 0.05
	factorOasis  = 0.05
	factorSwamp  = 0.05
	factorWood   = 0.3
)

var (
	grassDistribution  = world.NewDistribution(0, 0.5, 0.1, 0.4)
	desertDistribution = world.NewDistribution(0, 0.1, 0.8, 0.1)
	reefDistribution   = world.NewDistribution(0, 0.4, 0.2, 0.4)
	oasisDistribution  = world.NewDistribution(0, 0.1, 0.8, 0.1)
	swampDistribution  = world.NewDistribution(0.2, 0.5, 0, 0.3)
	forestDistribution = world.NewDistribution(0.05, 0.5, 0.05, 0.4)
	jungleDistribution = world.NewDistribution(0, 0, 0.2, 0.8)
	evenDistribution   = world.NewDistribution(0, 0, 0, 0)
)

// Options are the map tags the shaper reacts to.
type Options struct {
	Size        world.MapSize
	Temperature world.Temperature
	Humidity    world.Humidity
	RiverFactor float64
	Riverbed    int
}

// RiverCount is the number of rivers requested for the options.
func (o Options) RiverCount() int {
	return int(o.RiverFactor * float64(int(o.Size)+1))
}

// Result is what Shape produced besides the tile changes.
type Result struct {
	Rivers     []River
	Directions Directions
}

// Shape applies rivers, climate belts and landscape features to m in place.
func Shape(rng *rand.Rand, m *world.Map, opts Options) Result {
	riverbed := opts.Riverbed
	if riverbed <= 0 {
		riverbed = DefaultRiverbed
	}
	rivers := ComputeRivers(rng, m, opts.RiverCount(), riverbed)

	createSnow(rng, m, opts.Temperature)
	createTundra(rng, m, opts.Temperature)

	humidity := float64(opts.Humidity)

	grass := int(float64(m.Count(world.Plain, world.PlainHills)) * factorGrass * (1.5 - 0.5*humidity))
	paintTerrain(rng, m, grassDistribution, grass, world.Grass, world.GrassHills)

	desert := int(float64(m.Count(world.Plain, world.PlainHills)) * factorDesert * (0.5 + 0.5*humidity))
	paintTerrain(rng, m, desertDistribution, desert, world.Desert, world.DesertHills)

	reef := int(float64(m.Count(world.DeepWater)) * factorReef)
	world.AddRandomLandscape(rng, m, reefDistribution, reef, world.Reef, world.DeepWater)

	if opts.Temperature == world.TemperatureHot {
		oasis := int(float64(m.Count(world.Desert)) * factorOasis)
		world.AddRandomLandscape(rng, m, oasisDistribution, oasis, world.Oasis, world.Desert)
	}

	swampOn := []world.Terrain{world.Grass, world.Plain, world.Tundra}
	swamp := int(float64(m.Count(swampOn...)) * factorSwamp * (1.5 + 0.5*humidity))
	world.AddRandomLandscape(rng, m, swampDistribution, swamp, world.Swamp, swampOn...)

	forestOn := []world.Terrain{world.Grass, world.Plain, world.Tundra, world.GrassHills, world.PlainHills, world.TundraHills}
	forest := int(float64(m.Count(forestOn...)) * factorWood * 0.5 * (1.5 - 0.5*humidity))
	world.AddRandomLandscape(rng, m, forestDistribution, forest, world.Forest, forestOn...)

	jungleOn := []world.Terrain{world.Grass, world.Plain, world.GrassHills, world.PlainHills}
	jungle := int(float64(m.Count(jungleOn...)) * factorWood * 0.5 * (1.5 - 0.5*humidity))
	world.AddRandomLandscape(rng, m, jungleDistribution, jungle, world.Jungle, jungleOn...)

	volcanoes := 0
	if n := min(10, m.Count(world.Mountain)/10); n > 0 {
		volcanoes = rng.Intn(n)
	}
	world.AddRandomLandscape(rng, m, evenDistribution, volcanoes, world.Volcano, world.Mountain)

	directions := make(Directions)
	for _, r := range rivers {
		directions.Merge(RiverDirections(r.Tiles()))
	}
	return Result{Rivers: rivers, Directions: directions}
}

// paintTerrain turns plains into flat and plain hills into hilly variants of
// a terrain, count tiles in total.
func paintTerrain(rng *rand.Rand, m *world.Map, dist world.Distribution, count int, flat, hills world.Terrain) {
	world.Scatter(rng, m, dist, count,
		world.IsTerrain(world.Plain, world.PlainHills),
		func(h *world.Hex) {
			if h.Terrain == world.PlainHills {
				h.Terrain = hills
			} else {
				h.Terrain = flat
			}
		})
}

// snowChance returns the chance out of 10 that a tile in row becomes snow.
func snowChance(row, rows int, t world.Temperature) int {
	chance := 0
	if row == 0 || row == rows-1 {
		chance = 10
	}
	if t < world.TemperatureHot && (row == 1 || row == rows-2) {
		if t < world.TemperatureNormal {
			chance = 6
		} else {
			chance = 4
		}
	}
	if t < world.TemperatureNormal && (row == 2 || row == rows-3) {
		chance = 4
	}
	return chance
}

// tundraChance returns the chance out of 10 that a tile in row becomes tundra.
func tundraChance(row, rows int, t world.Temperature) int {
	chance := 0
	if row == 1 || row == rows-2 {
		chance = 10
	}
	if row == 2 || row == rows-3 {
		switch t {
		case world.TemperatureHot:
			chance = 3
		case world.TemperatureNormal:
			chance = 8
		case world.TemperatureCold:
			chance = 9
		}
	}
	if t < world.TemperatureNormal {
		if row == 3 || row == rows-4 {
			chance = 6
		}
		if row == 4 || row == rows-5 {
			chance = 3
		}
	}
	return chance
}

func createSnow(rng *rand.Rand, m *world.Map, t world.Temperature) {
	for i := range m.Hexes {
		h := &m.Hexes[i]
		chance := snowChance(h.Coord.R, m.Rows, t)
		if chance == 0 || rng.Intn(10) >= chance {
			continue
		}
		switch h.Terrain {
		case world.ShallowWater, world.DeepWater:
			h.Landscape = world.Ice
		case world.PlainHills:
			h.Terrain = world.SnowHills
		case world.Plain:
			h.Terrain = world.Snow
		}
	}
}

func createTundra(rng *rand.Rand, m *world.Map, t world.Temperature) {
	for i := range m.Hexes {
		h := &m.Hexes[i]
		chance := tundraChance(h.Coord.R, m.Rows, t)
		if chance == 0 || rng.Intn(10) >= chance {
			continue
		}
		switch h.Terrain {
		case world.PlainHills:
			h.Terrain = world.TundraHills
		case world.Plain:
			h.Terrain = world.Tundra
		}
	}
}
