package landscape

import (
	"log/slog"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/hexmap/internal/world"
)

const (
	// MinRiverLength is the shortest accepted river bed.
	MinRiverLength = 3

	// MaxRiverbed caps the buffer width around rivers.
	MaxRiverbed = 4

	maxRiverTries      = 30
	waterSearchRadius  = 20
	bankTriesPerStep   = 5
	departureRings     = 2
	mountainEdgeMargin = 2
)

// River is one generated river: its bed from the source mountain to the
// water and the bank tiles running along one side of it.
type River struct {
	Source world.HexCoord
	Bed    []*world.Hex
	Bank   []*world.Hex
}

// Tiles returns bed and bank tiles, bed first.
func (r River) Tiles() []*world.Hex {
	out := make([]*world.Hex, 0, len(r.Bed)+len(r.Bank))
	out = append(out, r.Bed...)
	return append(out, r.Bank...)
}

type source struct {
	hex             *world.Hex
	distanceToWater int
}

// ComputeRivers generates up to count rivers flowing from mountains to
// shallow water. Tiles within riverbed rings of a river bed are reserved
// so rivers keep apart.
func ComputeRivers(rng *rand.Rand, m *world.Map, count, riverbed int) []River {
	if count <= 0 {
		return nil
	}
	riverbed = min(max(riverbed, 1), MaxRiverbed)

	var sources []source
	for _, h := range m.OfTerrain(world.Mountain) {
		if m.IsAtEdge(h, mountainEdgeMargin) {
			continue
		}
		_, d := m.FindNearest(h.Coord, max(m.Rows, m.Columns), world.IsTerrain(world.ShallowWater))
		sources = append(sources, source{hex: h, distanceToWater: d})
	}

	var rivers []River
	for tries := 0; len(rivers) < count && tries < maxRiverTries && len(sources) > 0; tries++ {
		i := rng.Intn(len(sources))
		src := sources[i]
		sources = append(sources[:i], sources[i+1:]...)

		if src.hex.River != world.NoRiver {
			continue
		}
		bed, ok := riverPath(rng, m, src.hex, src.distanceToWater+2)
		if !ok || len(bed) < MinRiverLength {
			continue
		}
		for _, h := range bed {
			h.River = world.RiverBed
		}
		bank := riverBank(rng, m, src.hex, bed)
		if len(bank) == 0 || !bankFollowsBed(bed, bank) {
			for _, h := range bed {
				h.River = world.NoRiver
			}
			continue
		}
		for _, h := range bank {
			h.River = world.RiverBank
		}
		reserveArea(m, bed, riverbed)
		rivers = append(rivers, River{Source: src.hex.Coord, Bed: bed, Bank: bank})
	}
	if len(rivers) < count {
		slog.Debug("fewer rivers than requested", "want", count, "got", len(rivers))
	}
	return rivers
}

// riverPath walks from the mountain toward water. Each step moves to an
// unvisited neighbour: one time in four a random one, otherwise the one
// closest to shallow water. Within the first rings every step must move
// away from the mountain. The walk fails when it dead-ends, grows past
// maxLength or runs out of loops.
func riverPath(rng *rand.Rand, m *world.Map, mountain *world.Hex, maxLength int) ([]*world.Hex, bool) {
	closed := make(map[world.HexCoord]bool)
	var open, path []*world.Hex
	next := mountain
	lastDistance := 0

	for loops := 0; loops < world.MaxLoops; loops++ {
		for _, h := range open {
			closed[h.Coord] = true
		}
		open = open[:0]

		neighbors := m.Neighbors(next.Coord)
		for _, n := range neighbors {
			if n.Terrain.IsWater() {
				return path, true
			}
		}
		for _, n := range neighbors {
			if n.Terrain != world.Mountain && n.River == world.NoRiver && !closed[n.Coord] {
				open = append(open, n)
			}
		}
		if len(open) == 0 {
			return nil, false
		}

		possible := open
		if lastDistance < departureRings {
			possible = nil
			for _, h := range open {
				if world.Distance(mountain.Coord, h.Coord) > lastDistance {
					possible = append(possible, h)
				}
			}
			if len(possible) == 0 {
				return nil, false
			}
		}

		if rng.Intn(4) == 0 {
			next = possible[rng.Intn(len(possible))]
		} else {
			next = closestToWater(m, possible)
			if next == nil {
				return nil, false
			}
		}
		lastDistance = world.Distance(mountain.Coord, next.Coord)
		path = append(path, next)
		if len(path) > maxLength {
			return nil, false
		}
	}
	return nil, false
}

// closestToWater returns the candidate with the smallest distance to shallow
// water, the first one on ties. Candidates with no water in reach are skipped.
func closestToWater(m *world.Map, candidates []*world.Hex) *world.Hex {
	var best *world.Hex
	bestDistance := 0
	for _, h := range candidates {
		found, d := m.FindNearest(h.Coord, waterSearchRadius, world.IsTerrain(world.ShallowWater))
		if found == nil {
			continue
		}
		if best == nil || d < bestDistance {
			best, bestDistance = h, d
		}
	}
	return best
}

// riverBank widens the bed into a two tile wide river. Starting next to the
// mountain, each new bank tile is a common neighbour of the previous bank
// tile and the current bed tile. When the bed turns away from the bank and
// no common neighbour exists, the bank re-anchors on a free neighbour of the
// bed tile close to the previous bank tile. Ambiguous choices are broken at
// random.
func riverBank(rng *rand.Rand, m *world.Map, mountain *world.Hex, bed []*world.Hex) []*world.Hex {
	onBed := mapset.New[world.HexCoord]()
	for _, h := range bed {
		onBed.Put(h.Coord)
	}
	onBank := mapset.New[world.HexCoord]()
	eligible := func(h *world.Hex) bool {
		if onBed.Has(h.Coord) || onBank.Has(h.Coord) || h.Coord == mountain.Coord {
			return false
		}
		if h.Terrain.IsWater() || h.Terrain == world.Mountain {
			return false
		}
		return h.River == world.NoRiver || h.River == world.RiverArea
	}

	first := preferAdjacent(sharedNeighbors(m, mountain.Coord, bed[0].Coord, eligible), bed, 1)
	if len(first) == 0 {
		first = preferAdjacent(reanchor(m, mountain.Coord, bed[0].Coord, eligible), bed, 1)
	}
	if len(first) == 0 {
		return nil
	}
	bank := []*world.Hex{pick(rng, first)}
	onBank.Put(bank[0].Coord)
	touched := bankTouches(bank[0], bed, 0)

	for i := range bed {
		final := i == len(bed)-1
		for try := 0; try < bankTriesPerStep; try++ {
			last := bank[len(bank)-1]
			if touched[i] && (final || adjacent(last.Coord, bed[i+1].Coord)) {
				break
			}
			candidates := sharedNeighbors(m, last.Coord, bed[i].Coord, eligible)
			if len(candidates) == 0 {
				candidates = reanchor(m, last.Coord, bed[i].Coord, eligible)
			}
			candidates = preferAdjacent(candidates, bed, i+1)
			if len(candidates) == 0 {
				break
			}
			h := pick(rng, candidates)
			onBank.Put(h.Coord)
			bank = append(bank, h)
			for j, ok := range bankTouches(h, bed, i) {
				touched[j] = touched[j] || ok
			}
		}
	}
	return bank
}

// reanchor returns the eligible neighbours of b within two steps of a, or
// every eligible neighbour of b when none are that close.
func reanchor(m *world.Map, a, b world.HexCoord, eligible func(*world.Hex) bool) []*world.Hex {
	var near, all []*world.Hex
	for _, h := range m.Neighbors(b) {
		if !eligible(h) {
			continue
		}
		all = append(all, h)
		if world.Distance(a, h.Coord) <= 2 {
			near = append(near, h)
		}
	}
	if len(near) > 0 {
		return near
	}
	return all
}

// bankTouches reports, for every bed tile, whether h is adjacent to it.
// Bed tiles before from are left false.
func bankTouches(h *world.Hex, bed []*world.Hex, from int) []bool {
	out := make([]bool, len(bed))
	for j := from; j < len(bed); j++ {
		out[j] = adjacent(h.Coord, bed[j].Coord)
	}
	return out
}

// bankFollowsBed reports whether every bed tile but the last one, which
// meets the water, has a bank tile beside it.
func bankFollowsBed(bed, bank []*world.Hex) bool {
	around := mapset.New[world.HexCoord]()
	for _, h := range bank {
		for _, c := range h.Coord.Neighbors() {
			around.Put(c)
		}
	}
	for _, h := range bed[:len(bed)-1] {
		if !around.Has(h.Coord) {
			return false
		}
	}
	return true
}

// sharedNeighbors returns the eligible tiles adjacent to both a and b, in
// the direction order of b.
func sharedNeighbors(m *world.Map, a, b world.HexCoord, eligible func(*world.Hex) bool) []*world.Hex {
	around := mapset.New[world.HexCoord]()
	for _, c := range a.Neighbors() {
		around.Put(c)
	}
	var result []*world.Hex
	for _, h := range m.Neighbors(b) {
		if around.Has(h.Coord) && eligible(h) {
			result = append(result, h)
		}
	}
	return result
}

// preferAdjacent narrows candidates to those touching bed[next] when any do.
func preferAdjacent(candidates []*world.Hex, bed []*world.Hex, next int) []*world.Hex {
	if next >= len(bed) {
		return candidates
	}
	var touching []*world.Hex
	for _, h := range candidates {
		if adjacent(h.Coord, bed[next].Coord) {
			touching = append(touching, h)
		}
	}
	if len(touching) > 0 {
		return touching
	}
	return candidates
}

func pick(rng *rand.Rand, hexes []*world.Hex) *world.Hex {
	if len(hexes) == 1 {
		return hexes[0]
	}
	return hexes[rng.Intn(len(hexes))]
}

func adjacent(a, b world.HexCoord) bool {
	return world.Distance(a, b) == 1
}

// reserveArea marks every free tile within radius rings of the bed as river
// area.
func reserveArea(m *world.Map, bed []*world.Hex, radius int) {
	for _, b := range bed {
		for _, c := range b.Coord.SpiralInward(radius) {
			if h := m.Get(c); h != nil && h.River == world.NoRiver {
				h.River = world.RiverArea
			}
		}
	}
}

// Directions maps a river tile to the sides where it meets a tile of a
// different river state.
type Directions map[world.HexCoord][]world.Direction

// RiverDirections encodes, for every pair of adjacent river tiles with
// different states, the direction from each toward the other. Only tiles
// with at least one direction get an entry.
func RiverDirections(tiles []*world.Hex) Directions {
	out := make(Directions)
	for i, a := range tiles {
		for j, b := range tiles {
			if i == j || a.River == b.River {
				continue
			}
			d, ok := world.DirectionTo(a.Coord, b.Coord)
			if !ok {
				continue
			}
			out.add(a.Coord, d)
		}
	}
	return out
}

func (d Directions) add(c world.HexCoord, dir world.Direction) {
	for _, have := range d[c] {
		if have == dir {
			return
		}
	}
	d[c] = append(d[c], dir)
}

// Merge adds every direction of other, keeping existing order.
func (d Directions) Merge(other Directions) {
	for c, dirs := range other {
		for _, dir := range dirs {
			d.add(c, dir)
		}
	}
}
