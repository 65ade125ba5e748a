// Package mapdata holds the result of a map generation run and its
// textual, binary and compressed encodings.
package mapdata

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/talgya/hexmap/internal/world"
)

var (
	// ErrEmpty is returned when decoding an empty document.
	ErrEmpty = errors.New("mapdata: empty input")

	// ErrInvalid is returned when a document or value does not describe a
	// well-formed map.
	ErrInvalid = errors.New("mapdata: invalid map data")
)

// RiverDirections maps a river tile to the edges where the river continues.
type RiverDirections map[world.HexCoord][]world.Direction

// MapData is the generated map: its tags and three parallel row-major layers
// of rows*columns codes each.
type MapData struct {
	Rows        int               `json:"rows"`
	Columns     int               `json:"columns"`
	Seed        int64             `json:"seed"`
	Type        world.MapType     `json:"type"`
	Size        world.MapSize     `json:"size"`
	Temperature world.Temperature `json:"temperature"`
	Humidity    world.Humidity    `json:"humidity"`

	TerrainMap   []int `json:"terrainMap"`
	LandscapeMap []int `json:"landscapeMap"`
	RiverMap     []int `json:"riverMap"`

	RiverTileDirections RiverDirections `json:"riverTileDirections"`
}

// FromMap flattens a world map into MapData. Tags are left for the caller.
func FromMap(m *world.Map, dirs map[world.HexCoord][]world.Direction) *MapData {
	md := &MapData{
		Rows:                m.Rows,
		Columns:             m.Columns,
		TerrainMap:          m.TerrainCodes(),
		LandscapeMap:        m.LandscapeCodes(),
		RiverMap:            m.RiverCodes(),
		RiverTileDirections: make(RiverDirections, len(dirs)),
	}
	for c, list := range dirs {
		if len(list) > 0 {
			md.RiverTileDirections[c] = slices.Clone(list)
		}
	}
	return md
}

// TileCount is rows*columns.
func (md *MapData) TileCount() int {
	return md.Rows * md.Columns
}

// Validate checks layer lengths, code ranges and direction lists.
func (md *MapData) Validate() error {
	if md == nil {
		return ErrEmpty
	}
	if md.Rows <= 0 || md.Columns <= 0 {
		return fmt.Errorf("%w: %dx%d map", ErrInvalid, md.Rows, md.Columns)
	}
	n := md.TileCount()
	layers := []struct {
		name  string
		codes []int
		valid func(int) bool
	}{
		{"terrainMap", md.TerrainMap, validTerrain},
		{"landscapeMap", md.LandscapeMap, validLandscape},
		{"riverMap", md.RiverMap, validRiver},
	}
	for _, l := range layers {
		if len(l.codes) != n {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrInvalid, l.name, len(l.codes), n)
		}
		for i, c := range l.codes {
			if !l.valid(c) {
				return fmt.Errorf("%w: %s[%d] = %d", ErrInvalid, l.name, i, c)
			}
		}
	}
	for c, list := range md.RiverTileDirections {
		if !c.Valid() {
			return fmt.Errorf("%w: river tile %v is not a cube coordinate", ErrInvalid, c)
		}
		if len(list) == 0 {
			return fmt.Errorf("%w: river tile %v has no directions", ErrInvalid, c)
		}
		for _, d := range list {
			if int(d) >= len(world.Directions) {
				return fmt.Errorf("%w: river tile %v has direction %d", ErrInvalid, c, d)
			}
		}
	}
	return nil
}

func validTerrain(c int) bool {
	return c >= int(world.MinTerrain) && c <= int(world.MaxTerrain)
}

func validLandscape(c int) bool {
	return c == int(world.NoLandscape) || (c >= int(world.Ice) && c <= int(world.Volcano))
}

func validRiver(c int) bool {
	switch world.River(c) {
	case world.NoRiver, world.RiverBed, world.RiverArea, world.RiverBank:
		return true
	}
	return false
}

// Clone returns a deep copy.
func (md *MapData) Clone() *MapData {
	if md == nil {
		return nil
	}
	c := *md
	c.TerrainMap = slices.Clone(md.TerrainMap)
	c.LandscapeMap = slices.Clone(md.LandscapeMap)
	c.RiverMap = slices.Clone(md.RiverMap)
	if md.RiverTileDirections != nil {
		c.RiverTileDirections = make(RiverDirections, len(md.RiverTileDirections))
		for k, v := range md.RiverTileDirections {
			c.RiverTileDirections[k] = slices.Clone(v)
		}
	}
	return &c
}

// Equal reports whether both maps carry the same tags, layers and river
// directions. A nil and an empty direction map are equal.
func (md *MapData) Equal(o *MapData) bool {
	if md == nil || o == nil {
		return md == o
	}
	return md.Rows == o.Rows &&
		md.Columns == o.Columns &&
		md.Seed == o.Seed &&
		md.Type == o.Type &&
		md.Size == o.Size &&
		md.Temperature == o.Temperature &&
		md.Humidity == o.Humidity &&
		slices.Equal(md.TerrainMap, o.TerrainMap) &&
		slices.Equal(md.LandscapeMap, o.LandscapeMap) &&
		slices.Equal(md.RiverMap, o.RiverMap) &&
		maps.EqualFunc(md.RiverTileDirections, o.RiverTileDirections, slices.Equal[[]world.Direction])
}

// SortedRiverTiles returns the river tile keys ordered by row, then column.
func (md *MapData) SortedRiverTiles() []world.HexCoord {
	keys := slices.Collect(maps.Keys(md.RiverTileDirections))
	slices.SortFunc(keys, func(a, b world.HexCoord) int {
		if a.R != b.R {
			return a.R - b.R
		}
		return a.Q - b.Q
	})
	return keys
}

// Print writes the terrain layer as a text grid, odd rows indented.
func (md *MapData) Print(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s/%s seed=%d (%dx%d)\n",
		md.Type, md.Size, md.Temperature, md.Humidity, md.Seed, md.Rows, md.Columns)
	for row := 0; row < md.Rows; row++ {
		if row&1 == 1 {
			b.WriteString(" ")
		}
		for col := 0; col < md.Columns; col++ {
			i := row*md.Columns + col
			if i >= len(md.TerrainMap) {
				break
			}
			fmt.Fprintf(&b, "%2d", md.TerrainMap[i])
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
