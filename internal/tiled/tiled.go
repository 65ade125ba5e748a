// Package tiled converts generated maps into Tiled map editor JSON: a
// hexagonal, odd-row staggered map with one tile layer each for terrain,
// landscape and rivers.
package tiled

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/talgya/hexmap/internal/mapdata"
	"github.com/talgya/hexmap/internal/world"
)

// Combined atlas layout: terrain codes keep their value, landscapes start
// after LandscapeBase and river states after RiverBase.
const (
	LandscapeBase = 16
	RiverBase     = 32

	tiledVersion  = "1.11.0"
	formatVersion = "1.1"
)

// Layer names in export order.
var LayerNames = [3]string{"terrain", "landscape", "river"}

// TileMap is the top level Tiled map document.
type TileMap struct {
	CompressionLevel int         `json:"compressionlevel"`
	Height           int         `json:"height"`
	HexSideLength    int         `json:"hexsidelength"`
	Infinite         bool        `json:"infinite"`
	Layers           []TileLayer `json:"layers"`
	NextLayerID      int         `json:"nextlayerid"`
	NextObjectID     int         `json:"nextobjectid"`
	Orientation      string      `json:"orientation"`
	RenderOrder      string      `json:"renderorder"`
	StaggerAxis      string      `json:"staggeraxis"`
	StaggerIndex     string      `json:"staggerindex"`
	TiledVersion     string      `json:"tiledversion"`
	TileHeight       int         `json:"tileheight"`
	TileSets         []TileSet   `json:"tilesets"`
	TileWidth        int         `json:"tilewidth"`
	Type             string      `json:"type"`
	Version          string      `json:"version"`
	Width            int         `json:"width"`
}

// TileLayer is one grid of global tile ids in row-major order.
type TileLayer struct {
	Data    []int   `json:"data"`
	Height  int     `json:"height"`
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Opacity float64 `json:"opacity"`
	Type    string  `json:"type"`
	Visible bool    `json:"visible"`
	Width   int     `json:"width"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
}

// TileSet is an image based tileset.
type TileSet struct {
	Columns          int    `json:"columns"`
	FirstGID         int    `json:"firstgid"`
	Image            string `json:"image"`
	ImageHeight      int    `json:"imageheight"`
	ImageWidth       int    `json:"imagewidth"`
	Margin           int    `json:"margin"`
	Name             string `json:"name"`
	Spacing          int    `json:"spacing"`
	TileCount        int    `json:"tilecount"`
	TileHeight       int    `json:"tileheight"`
	TileWidth        int    `json:"tilewidth"`
	TransparentColor string `json:"transparentcolor,omitempty"`
}

// TilesetOptions describe the tileset image the map refers to.
type TilesetOptions struct {
	Image            string `yaml:"image" json:"image"`
	TileWidth        int    `yaml:"tile_width" json:"tileWidth"`
	TileHeight       int    `yaml:"tile_height" json:"tileHeight"`
	ImageWidth       int    `yaml:"image_width" json:"imageWidth"`
	ImageHeight      int    `yaml:"image_height" json:"imageHeight"`
	TileCount        int    `yaml:"tile_count" json:"tileCount"`
	Columns          int    `yaml:"columns" json:"columns"`
	TransparentColor string `yaml:"transparent_color" json:"transparentColor"`
}

// DefaultTileset matches a single row atlas of 48 tiles of 32x34 pixels.
func DefaultTileset() TilesetOptions {
	return TilesetOptions{
		Image:            "tileset.png",
		TileWidth:        32,
		TileHeight:       34,
		ImageWidth:       1536,
		ImageHeight:      34,
		TileCount:        48,
		Columns:          48,
		TransparentColor: "#ffffff",
	}
}

// Validate checks that all sizes are positive and an image is named.
func (o TilesetOptions) Validate() error {
	var errs []error
	if strings.TrimSpace(o.Image) == "" {
		errs = append(errs, errors.New("tileset image is empty"))
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"tile width", o.TileWidth},
		{"tile height", o.TileHeight},
		{"image width", o.ImageWidth},
		{"image height", o.ImageHeight},
		{"tile count", o.TileCount},
		{"columns", o.Columns},
	} {
		if f.v <= 0 {
			errs = append(errs, fmt.Errorf("tileset %s must be positive, got %d", f.name, f.v))
		}
	}
	return errors.Join(errs...)
}

// Converter builds Tiled documents. In combined mode all three layers index
// into one shared atlas.
type Converter struct {
	Combined bool
}

// Convert builds the Tiled map for md.
func (c Converter) Convert(md *mapdata.MapData, ts TilesetOptions) (*TileMap, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}

	tm := &TileMap{
		CompressionLevel: -1,
		Height:           md.Rows,
		HexSideLength:    ts.TileWidth / 2,
		Orientation:      "hexagonal",
		RenderOrder:      "right-down",
		StaggerAxis:      "y",
		StaggerIndex:     "odd",
		TiledVersion:     tiledVersion,
		TileHeight:       ts.TileHeight,
		TileWidth:        ts.TileWidth,
		Type:             "map",
		Version:          formatVersion,
		Width:            md.Columns,
	}

	layers := [3][]int{md.TerrainMap, md.LandscapeMap, md.RiverMap}
	for i, data := range layers {
		if c.Combined {
			data = c.combine(i, data)
		} else {
			data = slices.Clone(data)
		}
		tm.Layers = append(tm.Layers, TileLayer{
			Data:    data,
			Height:  md.Rows,
			ID:      i + 1,
			Name:    LayerNames[i],
			Opacity: 1,
			Type:    "tilelayer",
			Visible: true,
			Width:   md.Columns,
		})
	}
	tm.NextLayerID = len(tm.Layers) + 1
	tm.NextObjectID = 1

	tm.TileSets = []TileSet{{
		Columns:          ts.Columns,
		FirstGID:         1,
		Image:            ts.Image,
		ImageHeight:      ts.ImageHeight,
		ImageWidth:       ts.ImageWidth,
		Name:             strings.TrimSuffix(ts.Image, ".png"),
		TileCount:        ts.TileCount,
		TileHeight:       ts.TileHeight,
		TileWidth:        ts.TileWidth,
		TransparentColor: ts.TransparentColor,
	}}
	return tm, nil
}

func (c Converter) combine(layer int, codes []int) []int {
	out := make([]int, len(codes))
	for i, v := range codes {
		switch layer {
		case 0:
			out[i] = v
		case 1:
			if v != int(world.NoLandscape) {
				out[i] = LandscapeBase + v - int(world.Ice) + 1
			}
		case 2:
			switch world.River(v) {
			case world.RiverBed:
				out[i] = RiverBase + 1
			case world.RiverBank:
				out[i] = RiverBase + 2
			}
		}
	}
	return out
}

// JSON renders the Tiled document for md as indented JSON.
func (c Converter) JSON(md *mapdata.MapData, ts TilesetOptions) ([]byte, error) {
	tm, err := c.Convert(md, ts)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tm, "", "  ")
}
