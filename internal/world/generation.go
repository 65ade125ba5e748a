// Growth primitives shared by all terrain generators.
// Generators seed a few tiles, then grow them outward by converting random
// neighbours until a tile quota is spent or the loop ceiling is reached.
package world

import (
	"log/slog"
	"math/rand"
)

const (
	// MaxLoops bounds every randomized search and growth loop.
	MaxLoops = 10000

	// MaxContinentSeed is the first continent id; later ids count down.
	MaxContinentSeed = 999
)

// Rule describes what a growth step may convert.
type Rule struct {
	Name string

	// Match reports whether to may be converted when reached from from.
	Match func(m *Map, from, to *Hex) bool

	// Apply converts to.
	Apply func(from, to *Hex)
}

// ConvertRule turns tiles of terrain from into terrain to.
func ConvertRule(from, to Terrain) Rule {
	return Rule{
		Name:  from.String() + "->" + to.String(),
		Match: func(_ *Map, _, h *Hex) bool { return h.Terrain == from },
		Apply: func(_, h *Hex) { h.Terrain = to },
	}
}

// LandRule grows land of the given terrain over shallow water.
func LandRule(land Terrain) Rule { return ConvertRule(ShallowWater, land) }

// WaterRule grows shallow water over the given land terrain.
func WaterRule(land Terrain) Rule { return ConvertRule(land, ShallowWater) }

// HillRule grows hills of the given terrain over flat land.
func HillRule(flat, hills Terrain) Rule { return ConvertRule(flat, hills) }

// ContinentRule claims unclaimed tiles for the continent of the growing
// tile, refusing any tile that would touch a different continent.
func ContinentRule() Rule {
	return Rule{
		Name: "continent",
		Match: func(m *Map, from, h *Hex) bool {
			if h.Continent != 0 {
				return false
			}
			for _, n := range m.Neighbors(h.Coord) {
				if n.Continent != 0 && n.Continent != from.Continent {
					return false
				}
			}
			return true
		},
		Apply: func(from, h *Hex) { h.Continent = from.Continent },
	}
}

// Shuffle permutes hexes in place (Fisher-Yates).
func Shuffle(rng *rand.Rand, hexes []*Hex) {
	for n := len(hexes) - 1; n > 0; n-- {
		k := rng.Intn(n + 1)
		hexes[n], hexes[k] = hexes[k], hexes[n]
	}
}

// RandomNeighbors returns each in-bounds neighbour of h with probability 1/2,
// in direction order.
func RandomNeighbors(rng *rand.Rand, m *Map, h *Hex) []*Hex {
	var result []*Hex
	for _, n := range m.Neighbors(h.Coord) {
		if rng.Intn(2) == 0 {
			result = append(result, n)
		}
	}
	return result
}

// AddRandomTileSeed converts up to count random tiles of oldType into newType.
// Each seed retries up to MaxLoops draws. It returns the converted tiles and
// the quota left after subtracting them.
func AddRandomTileSeed(rng *rand.Rand, m *Map, newType, oldType Terrain, count, quota int) ([]*Hex, int) {
	return addSeeds(rng, m, func() *Hex { return m.RandomHex(rng) }, newType, oldType, count, quota)
}

// AddCentralTileSeed is AddRandomTileSeed restricted to tiles at least
// rowBorder rows and colBorder columns away from the map edges.
func AddCentralTileSeed(rng *rand.Rand, m *Map, newType, oldType Terrain, count, quota, rowBorder, colBorder int) ([]*Hex, int) {
	return addSeeds(rng, m, func() *Hex { return m.RandomHexInside(rng, rowBorder, colBorder) }, newType, oldType, count, quota)
}

func addSeeds(rng *rand.Rand, m *Map, pick func() *Hex, newType, oldType Terrain, count, quota int) ([]*Hex, int) {
	var seeds []*Hex
	for i := 0; i < count && quota > 0; i++ {
		for tries := 0; tries < MaxLoops; tries++ {
			h := pick()
			if h.Terrain == oldType {
				h.Terrain = newType
				seeds = append(seeds, h)
				quota--
				break
			}
		}
	}
	if len(seeds) < count && quota > 0 {
		slog.Debug("seed placement short", "terrain", newType, "want", count, "placed", len(seeds))
	}
	return seeds, quota
}

// AddRandomContinentSeeds claims count random unclaimed tiles as the origins
// of new continents, numbered downward from firstID. Seeds never touch an
// already claimed tile.
func AddRandomContinentSeeds(rng *rand.Rand, m *Map, count, firstID int) []*Hex {
	var seeds []*Hex
	for i := 0; i < count; i++ {
		for tries := 0; tries < MaxLoops; tries++ {
			h := m.RandomHex(rng)
			if h.Continent != 0 || touchesContinent(m, h) {
				continue
			}
			h.Continent = firstID - i
			seeds = append(seeds, h)
			break
		}
	}
	return seeds
}

func touchesContinent(m *Map, h *Hex) bool {
	for _, n := range m.Neighbors(h.Coord) {
		if n.Continent != 0 {
			return true
		}
	}
	return false
}

// Expand grows the frontier under rule until quota tiles were converted,
// the frontier is exhausted or MaxLoops rounds have run. It returns the
// remaining quota.
func Expand(rng *rand.Rand, m *Map, frontier []*Hex, quota int, rule Rule) int {
	frontier = append([]*Hex(nil), frontier...)
	loops := 0
	for ; quota > 0 && len(frontier) > 0 && loops < MaxLoops; loops++ {
		frontier = expandRound(rng, m, frontier, &quota, rule)
	}
	if quota > 0 {
		slog.Debug("expansion quota not met", "rule", rule.Name, "remaining", quota, "loops", loops)
	}
	return quota
}

// expandRound runs one growth pass over the shuffled frontier. Converted
// tiles join the returned frontier; tiles with nothing left to convert
// around them drop out of it.
func expandRound(rng *rand.Rand, m *Map, frontier []*Hex, quota *int, rule Rule) []*Hex {
	Shuffle(rng, frontier)
	next := make([]*Hex, 0, len(frontier))
	for _, h := range frontier {
		if *quota > 0 {
			for _, n := range RandomNeighbors(rng, m, h) {
				if *quota <= 0 {
					break
				}
				if rule.Match(m, h, n) {
					rule.Apply(h, n)
					*quota--
					next = append(next, n)
				}
			}
		}
		if hasCandidate(m, h, rule) {
			next = append(next, h)
		}
	}
	return next
}

func hasCandidate(m *Map, h *Hex, rule Rule) bool {
	for _, n := range m.Neighbors(h.Coord) {
		if rule.Match(m, h, n) {
			return true
		}
	}
	return false
}

// ExpandContinents grows the continents rooted at seeds. Each round picks one
// continent uniformly at random and grows it once. Continents never touch.
// It returns the remaining quota.
func ExpandContinents(rng *rand.Rand, m *Map, seeds []*Hex, quota int) int {
	if len(seeds) == 0 {
		return quota
	}
	rule := ContinentRule()
	frontiers := make([][]*Hex, len(seeds))
	for i, s := range seeds {
		frontiers[i] = []*Hex{s}
	}
	active := len(seeds)
	for loops := 0; quota > 0 && active > 0 && loops < MaxLoops; loops++ {
		i := rng.Intn(len(seeds))
		if len(frontiers[i]) == 0 {
			continue
		}
		frontiers[i] = expandRound(rng, m, frontiers[i], &quota, rule)
		if len(frontiers[i]) == 0 {
			active--
		}
	}
	if quota > 0 {
		slog.Debug("continent quota not met", "continents", len(seeds), "remaining", quota)
	}
	return quota
}

// ErodeContinents releases random claimed tiles that have at least three
// claimed neighbours, breaking landmasses into ragged islands.
func ErodeContinents(rng *rand.Rand, m *Map, quota int) int {
	for loops := 0; quota > 0 && loops < MaxLoops; loops++ {
		h := m.RandomHex(rng)
		if h.Continent == 0 {
			continue
		}
		claimed := 0
		for _, n := range m.Neighbors(h.Coord) {
			if n.Continent != 0 {
				claimed++
			}
		}
		if claimed >= 3 {
			h.Continent = 0
			quota--
		}
	}
	return quota
}

// SeparateContinents widens the channels between continents: an unclaimed
// tile bordering two or more continents releases random claimed neighbours.
func SeparateContinents(rng *rand.Rand, m *Map, quota int) int {
	for loops := 0; quota > 0 && loops < MaxLoops; loops++ {
		h := m.RandomHex(rng)
		if h.Continent != 0 || bordering(m, h) < 2 {
			continue
		}
		for _, n := range RandomNeighbors(rng, m, h) {
			if quota <= 0 {
				break
			}
			if n.Continent != 0 {
				n.Continent = 0
				quota--
			}
		}
	}
	return quota
}

// bordering counts the distinct continents adjacent to h.
func bordering(m *Map, h *Hex) int {
	var ids [6]int
	n := 0
outer:
	for _, nb := range m.Neighbors(h.Coord) {
		if nb.Continent == 0 {
			continue
		}
		for _, id := range ids[:n] {
			if id == nb.Continent {
				continue outer
			}
		}
		ids[n] = nb.Continent
		n++
	}
	return n
}

// ClaimedToLand turns every claimed tile into land and clears the tags.
func ClaimedToLand(m *Map, land Terrain) {
	for i := range m.Hexes {
		if m.Hexes[i].Continent != 0 {
			m.Hexes[i].Terrain = land
			m.Hexes[i].Continent = 0
		}
	}
}

// ShallowToDeepWater deepens every shallow tile whose neighbours are all water.
func ShallowToDeepWater(m *Map) {
	for i := range m.Hexes {
		h := &m.Hexes[i]
		if h.Terrain != ShallowWater {
			continue
		}
		deep := true
		for _, n := range m.Neighbors(h.Coord) {
			if !n.Terrain.IsWater() {
				deep = false
				break
			}
		}
		if deep {
			h.Terrain = DeepWater
		}
	}
}

// HillsToMountains raises random hill tiles to mountains when at most one
// neighbour is something other than hills, mountain or water.
func HillsToMountains(rng *rand.Rand, m *Map, quota int) int {
	for loops := 0; quota > 0 && loops < MaxLoops; loops++ {
		h := m.RandomHex(rng)
		if !h.Terrain.IsHills() {
			continue
		}
		others := 0
		for _, n := range m.Neighbors(h.Coord) {
			if !n.Terrain.IsHills() && n.Terrain != Mountain && !n.Terrain.IsWater() {
				others++
			}
		}
		if others <= 1 {
			h.Terrain = Mountain
			quota--
		}
	}
	if quota > 0 {
		slog.Debug("mountain quota not met", "remaining", quota)
	}
	return quota
}
