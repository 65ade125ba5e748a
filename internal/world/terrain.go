package world

import (
	"fmt"
	"strings"
)

// Terrain is the base surface of a tile. The numeric codes are the values
// written to the terrain layer of an exported map.
type Terrain int

const (
	ShallowWater Terrain = iota + 1
	DeepWater
	Plain
	PlainHills
	Grass
	GrassHills
	Desert
	DesertHills
	Tundra
	TundraHills
	Snow
	SnowHills
	Mountain
)

// Bounds of the terrain code range.
const (
	MinTerrain = ShallowWater
	MaxTerrain = Mountain
)

var terrainNames = map[Terrain]string{
	ShallowWater: "SHALLOW_WATER",
	DeepWater:    "DEEP_WATER",
	Plain:        "PLAIN",
	PlainHills:   "PLAIN_HILLS",
	Grass:        "GRASS",
	GrassHills:   "GRASS_HILLS",
	Desert:       "DESERT",
	DesertHills:  "DESERT_HILLS",
	Tundra:       "TUNDRA",
	TundraHills:  "TUNDRA_HILLS",
	Snow:         "SNOW",
	SnowHills:    "SNOW_HILLS",
	Mountain:     "MOUNTAIN",
}

// IsWater reports whether the terrain is shallow or deep water.
func (t Terrain) IsWater() bool {
	return t == ShallowWater || t == DeepWater
}

// IsHills reports whether the terrain is one of the hill variants.
func (t Terrain) IsHills() bool {
	switch t {
	case PlainHills, GrassHills, DesertHills, TundraHills, SnowHills:
		return true
	}
	return false
}

func (t Terrain) String() string {
	if n, ok := terrainNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Terrain(%d)", int(t))
}

// Landscape is an overlay feature placed on top of terrain.
// Codes continue after the last terrain code so both layers can share a tileset.
type Landscape int

const NoLandscape Landscape = 0

const (
	Ice Landscape = Landscape(MaxTerrain) + 1 + iota
	Reef
	Oasis
	Swamp
	Forest
	Jungle
	Volcano
)

var landscapeNames = map[Landscape]string{
	NoLandscape: "NONE",
	Ice:         "ICE",
	Reef:        "REEF",
	Oasis:       "OASIS",
	Swamp:       "SWAMP",
	Forest:      "FOREST",
	Jungle:      "JUNGLE",
	Volcano:     "VOLCANO",
}

func (l Landscape) String() string {
	if n, ok := landscapeNames[l]; ok {
		return n
	}
	return fmt.Sprintf("Landscape(%d)", int(l))
}

// River marks a tile's role in the river network.
type River int

const (
	NoRiver   River = 0
	RiverBed  River = 1
	RiverArea River = 98 // buffer around a river where no other river may start
	RiverBank River = 99
)

func (r River) String() string {
	switch r {
	case NoRiver:
		return "NONE"
	case RiverBed:
		return "RIVER"
	case RiverArea:
		return "RIVERAREA"
	case RiverBank:
		return "RIVERBANK"
	}
	return fmt.Sprintf("River(%d)", int(r))
}

// TerrainName returns the display name of a terrain code.
func TerrainName(t Terrain) string {
	return strings.ReplaceAll(strings.ToLower(t.String()), "_", " ")
}
