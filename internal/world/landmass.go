package world

import "slices"

// CountLandmasses finds the connected groups of non-water tiles in a
// row-major terrain layer. Tiles connect through the six hex neighbours.
// Only groups of at least threshold tiles are counted. Each returned group
// lists tile indices in ascending order; groups are ordered by their
// smallest index.
func CountLandmasses(codes []int, columns, rows int, water []int, threshold int) (int, [][]int) {
	if len(codes) != columns*rows {
		return 0, nil
	}
	isWater := make(map[int]bool, len(water))
	for _, w := range water {
		isWater[w] = true
	}

	seen := make([]bool, len(codes))
	var groups [][]int
	for start := range codes {
		if seen[start] || isWater[codes[start]] {
			continue
		}
		seen[start] = true
		group := []int{start}
		stack := []int{start}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			c := Offset{Col: i % columns, Row: i / columns}.Cube()
			for _, nc := range c.Neighbors() {
				o := nc.Offset()
				if o.Row < 0 || o.Row >= rows || o.Col < 0 || o.Col >= columns {
					continue
				}
				j := o.Row*columns + o.Col
				if seen[j] || isWater[codes[j]] {
					continue
				}
				seen[j] = true
				group = append(group, j)
				stack = append(stack, j)
			}
		}
		if len(group) >= threshold {
			slices.Sort(group)
			groups = append(groups, group)
		}
	}
	return len(groups), groups
}

// MatchPercentage returns the fraction of tiles whose code is in types.
func MatchPercentage(codes []int, types []int) float64 {
	if len(codes) == 0 {
		return 0
	}
	want := make(map[int]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	n := 0
	for _, c := range codes {
		if want[c] {
			n++
		}
	}
	return float64(n) / float64(len(codes))
}

// WaterCodes are the terrain codes treated as water by landmass counting.
var WaterCodes = []int{int(ShallowWater), int(DeepWater)}
