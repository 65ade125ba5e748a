package world

import (
	"log/slog"
	"math"
	"math/rand"
)

// ClimateZoneSizes are the shares of each hemisphere taken by the polar,
// temperate, dry and tropical bands, from the poles toward the equator.
var ClimateZoneSizes = [4]float64{0.18, 0.38, 0.14, 0.30}

// Distribution splits a tile quota across the four climate zones.
type Distribution struct {
	Polar     float64
	Temperate float64
	Dry       float64
	Tropical  float64
}

// NewDistribution returns the shares normalized to sum to 1.
// All-zero or negative input yields an even split.
func NewDistribution(polar, temperate, dry, tropical float64) Distribution {
	d := Distribution{max(polar, 0), max(temperate, 0), max(dry, 0), max(tropical, 0)}
	sum := d.Polar + d.Temperate + d.Dry + d.Tropical
	if sum <= 0 {
		return Distribution{0.25, 0.25, 0.25, 0.25}
	}
	return Distribution{d.Polar / sum, d.Temperate / sum, d.Dry / sum, d.Tropical / sum}
}

func (d Distribution) shares() [4]float64 {
	return [4]float64{d.Polar, d.Temperate, d.Dry, d.Tropical}
}

// ClimateZones partitions the rows of a map into the four latitude bands.
// Each band holds rows from both hemispheres: row i and its mirror
// rows-1-i. The innermost band absorbs rounding so every row belongs to
// exactly one band.
func ClimateZones(rows int) [][]int {
	zones := make([][]int, len(ClimateZoneSizes))
	half := (rows + 1) / 2
	last := 0
	for k, size := range ClimateZoneSizes {
		needed := int(math.Round(size * float64(rows) / 2))
		if k == len(ClimateZoneSizes)-1 {
			needed = half - last
		}
		for i := 0; i < needed && last+i < half; i++ {
			top := last + i
			bottom := rows - (top + 1)
			zones[k] = append(zones[k], top)
			if bottom != top {
				zones[k] = append(zones[k], bottom)
			}
		}
		last = min(last+needed, half)
	}
	return zones
}

// Scatter converts up to count tiles matching match, spread over the climate
// zones by dist. Zones are filled in order, polar first, by drawing random
// rows from the zone's band. All zones share one budget of MaxLoops draws,
// so a zone that cannot fill its share uses up the draws of the zones after
// it. It returns how many tiles changed.
func Scatter(rng *rand.Rand, m *Map, dist Distribution, count int, match func(*Hex) bool, apply func(*Hex)) int {
	zones := ClimateZones(m.Rows)
	var quotas [4]int
	for k, share := range dist.shares() {
		if len(zones[k]) > 0 {
			quotas[k] = int(share * float64(count))
		}
	}
	changed := 0
	zone := 0
	loops := 0
	for ; zone < len(quotas) && loops < MaxLoops; loops++ {
		if quotas[zone] <= 0 {
			zone++
			continue
		}
		band := zones[zone]
		h := m.RandomHexInRow(rng, band[rng.Intn(len(band))])
		if match(h) {
			apply(h)
			quotas[zone]--
			changed++
		}
	}
	if zone < len(quotas) {
		slog.Debug("climate quota not met", "zone", zone, "placed", changed, "loops", loops)
	}
	return changed
}

// AddRandomTerrain turns count tiles of the from terrains into to.
func AddRandomTerrain(rng *rand.Rand, m *Map, dist Distribution, count int, to Terrain, from ...Terrain) int {
	return Scatter(rng, m, dist, count, IsTerrain(from...), func(h *Hex) { h.Terrain = to })
}

// AddRandomLandscape places count landscape features on tiles of the given
// terrains that carry no feature yet.
func AddRandomLandscape(rng *rand.Rand, m *Map, dist Distribution, count int, l Landscape, on ...Terrain) int {
	onTerrain := IsTerrain(on...)
	return Scatter(rng, m, dist, count,
		func(h *Hex) bool { return h.Landscape == NoLandscape && onTerrain(h) },
		func(h *Hex) { h.Landscape = l })
}
