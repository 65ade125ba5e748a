package terrain

import (
	"math/rand"

	"github.com/talgya/hexmap/internal/world"
)

// generateRandom assigns every tile a uniformly random terrain.
func generateRandom(rng *rand.Rand, rows, columns int, _ Params) (*world.Map, error) {
	m := world.NewMap(rows, columns, world.Plain)
	kinds := int(world.MaxTerrain-world.MinTerrain) + 1
	for i := range m.Hexes {
		m.Hexes[i].Terrain = world.MinTerrain + world.Terrain(rng.Intn(kinds))
	}
	return m, nil
}

// generateLakes scatters lakes over a plain map, then adds hills and
// mountains. Highland and lakes maps differ only in their parameters.
func generateLakes(rng *rand.Rand, rows, columns int, p Params) (*world.Map, error) {
	m := world.NewMap(rows, columns, world.Plain)

	water := int(float64(m.HexCount()) * p.Water)
	addLakes(rng, m, lakeCount(rng, water, p), water)
	world.ShallowToDeepWater(m)

	addRelief(rng, m, p)
	return m, nil
}

// generateInlandSea grows one large body of water from seeds packed into the
// middle fifth-bordered area of a plain map.
func generateInlandSea(rng *rand.Rand, rows, columns int, p Params) (*world.Map, error) {
	m := world.NewMap(rows, columns, world.Plain)

	water := int(float64(m.HexCount()) * p.Water)
	tileFactor := water / 5
	central := tileFactor/2 + rng.Intn(tileFactor-tileFactor/2+1)
	seeds, quota := world.AddCentralTileSeed(rng, m, world.ShallowWater, world.Plain, central, water, rows/5, columns/5)
	extra, quota := world.AddRandomTileSeed(rng, m, world.ShallowWater, world.Plain, p.Seeds.Draw(rng), quota)
	seeds = append(seeds, extra...)
	world.Expand(rng, m, seeds, quota, world.WaterRule(world.Plain))
	world.ShallowToDeepWater(m)

	addRelief(rng, m, p)
	return m, nil
}

// generateSuperContinent raises one landmass from many central seeds and a
// few outliers in a shallow sea.
func generateSuperContinent(rng *rand.Rand, rows, columns int, p Params) (*world.Map, error) {
	m := world.NewMap(rows, columns, world.ShallowWater)

	land := int(float64(m.HexCount()) * p.Land)
	tileFactor := land / 6
	central := Range{tileFactor / 2, tileFactor}.Draw(rng)
	seeds, quota := world.AddCentralTileSeed(rng, m, world.Plain, world.ShallowWater, central, land, rows/5, columns/5)
	extra, quota := world.AddRandomTileSeed(rng, m, world.Plain, world.ShallowWater, p.Seeds.Draw(rng), quota)
	seeds = append(seeds, extra...)
	world.Expand(rng, m, seeds, quota, world.LandRule(world.Plain))

	lakes := p.LakeSeeds.Draw(rng)
	addLakes(rng, m, lakes, lakes*p.LakeSize.Draw(rng))
	world.ShallowToDeepWater(m)

	addRelief(rng, m, p)
	return m, nil
}

// generateContinents grows separate landmasses that never touch, breaks them
// up by continental drift and converts them to plains. With IslandSeeds set a
// second round of small landmasses is grown around the continents.
func generateContinents(rng *rand.Rand, rows, columns int, p Params) (*world.Map, error) {
	m := world.NewMap(rows, columns, world.ShallowWater)
	n := float64(m.HexCount())

	count := p.Seeds.Draw(rng)
	seeds := world.AddRandomContinentSeeds(rng, m, count, world.MaxContinentSeed)
	world.ExpandContinents(rng, m, seeds, int(n*p.Land)-len(seeds))

	if p.IslandLand > 0 {
		islands := world.AddRandomContinentSeeds(rng, m, p.IslandSeeds.Draw(rng), world.MaxContinentSeed-count)
		world.ExpandContinents(rng, m, islands, int(n*p.IslandLand)-len(islands))
	}

	drift := int(n * p.Water * p.Drift)
	switch p.DriftMode {
	case DriftErode:
		world.ErodeContinents(rng, m, drift)
	case DriftSeparate:
		world.SeparateContinents(rng, m, drift)
	}
	world.ClaimedToLand(m, world.Plain)

	water := int(n * p.Water * (1 - p.Drift))
	addLakes(rng, m, lakeCount(rng, water, p), water)
	world.ShallowToDeepWater(m)

	addRelief(rng, m, p)
	return m, nil
}
