package world

import (
	"fmt"
	"math/rand"
)

// Hex is a single tile on the map.
type Hex struct {
	Coord     HexCoord  `json:"coord"`
	Terrain   Terrain   `json:"terrain"`
	Landscape Landscape `json:"landscape"`
	River     River     `json:"river"`

	// Continent tags tiles claimed by a landmass during continent growth.
	// Zero means unclaimed.
	Continent int `json:"continent,omitempty"`

	// Elevation is only set by heightmap-driven generators, 0.0 to 1.0.
	Elevation float64 `json:"elevation,omitempty"`
}

// Map holds a rectangular hex grid in row-major order.
// Tiles are addressed by coordinate; they never reference each other.
type Map struct {
	Rows    int   `json:"rows"`
	Columns int   `json:"columns"`
	Hexes   []Hex `json:"-"`
}

// NewMap creates a rows x columns map with every tile set to terrain.
func NewMap(rows, columns int, terrain Terrain) *Map {
	m := &Map{
		Rows:    rows,
		Columns: columns,
		Hexes:   make([]Hex, rows*columns),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			m.Hexes[row*columns+col] = Hex{
				Coord:   Offset{Col: col, Row: row}.Cube(),
				Terrain: terrain,
			}
		}
	}
	return m
}

// NewMapFromTerrain builds a map from a row-major layer of terrain codes.
func NewMapFromTerrain(rows, columns int, codes []int) (*Map, error) {
	if len(codes) != rows*columns {
		return nil, fmt.Errorf("terrain layer has %d tiles, want %d", len(codes), rows*columns)
	}
	m := NewMap(rows, columns, ShallowWater)
	for i, c := range codes {
		m.Hexes[i].Terrain = Terrain(c)
	}
	return m, nil
}

// Fill sets every tile's terrain and clears continent tags.
func (m *Map) Fill(terrain Terrain) {
	for i := range m.Hexes {
		m.Hexes[i].Terrain = terrain
		m.Hexes[i].Continent = 0
	}
}

// Index returns the slice index of a coordinate, or -1 if out of bounds.
func (m *Map) Index(coord HexCoord) int {
	o := coord.Offset()
	if o.Row < 0 || o.Row >= m.Rows || o.Col < 0 || o.Col >= m.Columns {
		return -1
	}
	return o.Row*m.Columns + o.Col
}

// InBounds returns true if the coordinate lies on the grid.
func (m *Map) InBounds(coord HexCoord) bool {
	return m.Index(coord) >= 0
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	i := m.Index(coord)
	if i < 0 {
		return nil
	}
	return &m.Hexes[i]
}

// At returns the hex at an offset position, or nil if out of bounds.
func (m *Map) At(col, row int) *Hex {
	if row < 0 || row >= m.Rows || col < 0 || col >= m.Columns {
		return nil
	}
	return &m.Hexes[row*m.Columns+col]
}

// Neighbor returns the adjacent hex in direction d, or nil at the border.
func (m *Map) Neighbor(coord HexCoord, d Direction) *Hex {
	return m.Get(coord.Neighbor(d))
}

// Neighbors returns the in-bounds neighbors of a coordinate in direction order.
func (m *Map) Neighbors(coord HexCoord) []*Hex {
	result := make([]*Hex, 0, 6)
	for _, nc := range coord.Neighbors() {
		if h := m.Get(nc); h != nil {
			result = append(result, h)
		}
	}
	return result
}

// RandomHex picks a uniformly random tile: row first, then column.
func (m *Map) RandomHex(rng *rand.Rand) *Hex {
	row := rng.Intn(m.Rows)
	col := rng.Intn(m.Columns)
	return m.At(col, row)
}

// RandomHexInRow picks a uniformly random tile of the given row.
func (m *Map) RandomHexInRow(rng *rand.Rand, row int) *Hex {
	return m.At(rng.Intn(m.Columns), row)
}

// RandomHexInside picks a random tile at least border rows and columns away
// from the edges. The border is clamped so that some tile always qualifies.
func (m *Map) RandomHexInside(rng *rand.Rand, rowBorder, colBorder int) *Hex {
	rowBorder = min(max(rowBorder, 0), (m.Rows-1)/2)
	colBorder = min(max(colBorder, 0), (m.Columns-1)/2)
	row := rowBorder + rng.Intn(m.Rows-2*rowBorder)
	col := colBorder + rng.Intn(m.Columns-2*colBorder)
	return m.At(col, row)
}

// Count returns how many tiles have one of the given terrains.
func (m *Map) Count(types ...Terrain) int {
	n := 0
	for i := range m.Hexes {
		for _, t := range types {
			if m.Hexes[i].Terrain == t {
				n++
				break
			}
		}
	}
	return n
}

// Filter returns pointers to all tiles matching pred, in grid order.
func (m *Map) Filter(pred func(*Hex) bool) []*Hex {
	var result []*Hex
	for i := range m.Hexes {
		if pred(&m.Hexes[i]) {
			result = append(result, &m.Hexes[i])
		}
	}
	return result
}

// OfTerrain returns all tiles with one of the given terrains, in grid order.
func (m *Map) OfTerrain(types ...Terrain) []*Hex {
	return m.Filter(IsTerrain(types...))
}

// TerrainCodes flattens the terrain layer to row-major integer codes.
func (m *Map) TerrainCodes() []int {
	out := make([]int, len(m.Hexes))
	for i := range m.Hexes {
		out[i] = int(m.Hexes[i].Terrain)
	}
	return out
}

// LandscapeCodes flattens the landscape layer.
func (m *Map) LandscapeCodes() []int {
	out := make([]int, len(m.Hexes))
	for i := range m.Hexes {
		out[i] = int(m.Hexes[i].Landscape)
	}
	return out
}

// RiverCodes flattens the river layer.
func (m *Map) RiverCodes() []int {
	out := make([]int, len(m.Hexes))
	for i := range m.Hexes {
		out[i] = int(m.Hexes[i].River)
	}
	return out
}

// IsAtEdge reports whether any tile within distance rings of h falls off
// the grid.
func (m *Map) IsAtEdge(h *Hex, distance int) bool {
	for _, c := range h.Coord.SpiralInward(distance) {
		if !m.InBounds(c) {
			return true
		}
	}
	return false
}

// FindNearest searches rings of growing radius around coord (starting at 1)
// and returns the first tile matching pred together with its ring radius.
// It returns nil, 0 when nothing matches within maxRadius.
func (m *Map) FindNearest(coord HexCoord, maxRadius int, pred func(*Hex) bool) (*Hex, int) {
	for radius := 1; radius <= maxRadius; radius++ {
		for _, c := range coord.Ring(radius) {
			if h := m.Get(c); h != nil && pred(h) {
				return h, radius
			}
		}
	}
	return nil, 0
}

// TerrainCounts tallies the tiles of each terrain.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for i := range m.Hexes {
		counts[m.Hexes[i].Terrain]++
	}
	return counts
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, hexes=%d)", m.Columns, m.Rows, m.HexCount())
}

// IsTerrain returns a predicate matching any of the given terrains.
func IsTerrain(types ...Terrain) func(*Hex) bool {
	return func(h *Hex) bool {
		for _, t := range types {
			if h.Terrain == t {
				return true
			}
		}
		return false
	}
}
