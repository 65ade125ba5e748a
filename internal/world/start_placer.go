// Starting position placement: spreads player starts over passable land
// by clustering passable tiles with k-means.
package world

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// maxKMeansIterations bounds the Lloyd refinement.
const maxKMeansIterations = 100

// ErrNotEnoughLand is returned when fewer passable tiles exist than starts requested.
var ErrNotEnoughLand = errors.New("not enough passable tiles")

type point struct {
	x, y float64
}

// center returns the cartesian center of an offset cell (odd rows shifted right).
func center(o Offset) point {
	x := float64(o.Col)
	if o.Row&1 == 1 {
		x += 0.5
	}
	return point{x: x, y: float64(o.Row) * math.Sqrt(3) / 2}
}

func (p point) dist2(q point) float64 {
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

// FindStartingPositions picks n well separated positions on a row-major
// passable layer (non-zero = passable). Cluster centroids are snapped to the
// nearest unused passable cell, so every returned position is distinct and
// passable.
func FindStartingPositions(rng *rand.Rand, n int, passable []int, rows, columns int) ([]Offset, error) {
	if n < 1 {
		return nil, fmt.Errorf("starting positions: n must be positive, got %d", n)
	}
	if len(passable) != rows*columns {
		return nil, fmt.Errorf("starting positions: layer has %d tiles, want %d", len(passable), rows*columns)
	}

	var cells []Offset
	for i, v := range passable {
		if v != 0 {
			cells = append(cells, Offset{Col: i % columns, Row: i / columns})
		}
	}
	if len(cells) < n {
		return nil, fmt.Errorf("starting positions: %w (%d for %d players)", ErrNotEnoughLand, len(cells), n)
	}
	pts := make([]point, len(cells))
	for i, c := range cells {
		pts[i] = center(c)
	}

	centroids := initCentroids(rng, pts, n)
	assign := make([]int, len(pts))
	for i := range assign {
		assign[i] = -1
	}
	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, p := range pts {
			best := nearest(p, centroids)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		sums := make([]point, n)
		counts := make([]int, n)
		for i, p := range pts {
			sums[assign[i]].x += p.x
			sums[assign[i]].y += p.y
			counts[assign[i]]++
		}
		for k := range centroids {
			if counts[k] > 0 {
				centroids[k] = point{sums[k].x / float64(counts[k]), sums[k].y / float64(counts[k])}
			}
		}
	}

	taken := make(map[int]bool, n)
	result := make([]Offset, 0, n)
	for _, c := range centroids {
		best, bestD := -1, math.Inf(1)
		for i, p := range pts {
			if taken[i] {
				continue
			}
			if d := p.dist2(c); d < bestD {
				best, bestD = i, d
			}
		}
		taken[best] = true
		result = append(result, cells[best])
	}
	return result, nil
}

// initCentroids seeds the first centroid at random and each further one at
// the point farthest from those already chosen.
func initCentroids(rng *rand.Rand, pts []point, n int) []point {
	centroids := []point{pts[rng.Intn(len(pts))]}
	for len(centroids) < n {
		far, farD := 0, -1.0
		for i, p := range pts {
			d := p.dist2(centroids[nearest(p, centroids)])
			if d > farD {
				far, farD = i, d
			}
		}
		centroids = append(centroids, pts[far])
	}
	return centroids
}

func nearest(p point, centroids []point) int {
	best, bestD := 0, math.Inf(1)
	for k, c := range centroids {
		if d := p.dist2(c); d < bestD {
			best, bestD = k, d
		}
	}
	return best
}

// PassableLayer marks land tiles (anything but water) with 1 and the rest with 0.
func PassableLayer(terrain []int) []int {
	out := make([]int, len(terrain))
	for i, t := range terrain {
		if !Terrain(t).IsWater() {
			out[i] = 1
		}
	}
	return out
}
