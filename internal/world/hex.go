// Package world provides the hex grid, terrain codes, and the growth
// primitives the map generators are built from.
// Tiles use cube coordinates (q, r, s) with q + r + s = 0, laid out on a
// rectangular "odd-r" grid: odd rows are shifted half a hex to the right.
package world

import (
	"fmt"
	"strconv"
	"strings"
)

// HexCoord is a cube coordinate. Construct with NewHexCoord or Offset.Cube.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

// NewHexCoord returns the cube coordinate (q, r, s).
// It panics when q + r + s != 0.
func NewHexCoord(q, r, s int) HexCoord {
	if q+r+s != 0 {
		panic(fmt.Sprintf("world: invalid cube coordinate (%d,%d,%d)", q, r, s))
	}
	return HexCoord{Q: q, R: r, S: s}
}

// Offset is a (column, row) position on the rectangular grid.
type Offset struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Cube converts an odd-r offset position to cube coordinates.
func (o Offset) Cube() HexCoord {
	q := o.Col - (o.Row-(o.Row&1))/2
	return HexCoord{Q: q, R: o.Row, S: -q - o.Row}
}

// Offset converts the coordinate to its odd-r (column, row) position.
func (h HexCoord) Offset() Offset {
	return Offset{Col: h.Q + (h.R-(h.R&1))/2, Row: h.R}
}

// Valid reports whether the coordinate satisfies q + r + s = 0.
func (h HexCoord) Valid() bool {
	return h.Q+h.R+h.S == 0
}

func (h HexCoord) Add(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q + o.Q, R: h.R + o.R, S: h.S + o.S}
}

func (h HexCoord) Scale(k int) HexCoord {
	return HexCoord{Q: h.Q * k, R: h.R * k, S: h.S * k}
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", h.Q, h.R, h.S)
}

// MarshalText encodes the coordinate as "q,r,s" so it can key a JSON object.
func (h HexCoord) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(h.Q) + "," + strconv.Itoa(h.R) + "," + strconv.Itoa(h.S)), nil
}

func (h *HexCoord) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != 3 {
		return fmt.Errorf("hex coord %q: want q,r,s", text)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("hex coord %q: %w", text, err)
		}
		v[i] = n
	}
	c := HexCoord{Q: v[0], R: v[1], S: v[2]}
	if !c.Valid() {
		return fmt.Errorf("hex coord %q: q+r+s must be 0", text)
	}
	*h = c
	return nil
}

// Direction names one of the six hex neighbors.
type Direction uint8

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// Directions lists all six directions in clockwise order starting at NE.
var Directions = [6]Direction{NE, E, SE, SW, W, NW}

var directionVectors = [6]HexCoord{
	{Q: 1, R: -1, S: 0},
	{Q: 1, R: 0, S: -1},
	{Q: 0, R: 1, S: -1},
	{Q: -1, R: 1, S: 0},
	{Q: -1, R: 0, S: 1},
	{Q: 0, R: -1, S: 1},
}

var directionNames = [6]string{"NE", "E", "SE", "SW", "W", "NW"}

// Vector returns the cube offset of one step in direction d.
func (d Direction) Vector() HexCoord {
	return directionVectors[d%6]
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("invalid direction %d", d)
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	p, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// ParseDirection parses a direction name such as "NE" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(s, name) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Neighbor returns the adjacent coordinate in direction d.
func (h HexCoord) Neighbor(d Direction) HexCoord {
	return h.Add(d.Vector())
}

// Neighbors returns the six adjacent coordinates in direction order.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, d := range Directions {
		result[i] = h.Neighbor(d)
	}
	return result
}

// Ring returns the 6*radius coordinates at exactly radius steps from h.
// The walk starts at the W corner and proceeds NE, E, SE, SW, W, NW.
// Radius 0 yields h itself.
func (h HexCoord) Ring(radius int) []HexCoord {
	if radius <= 0 {
		return []HexCoord{h}
	}
	result := make([]HexCoord, 0, 6*radius)
	cur := h.Add(W.Vector().Scale(radius))
	for _, d := range Directions {
		for i := 0; i < radius; i++ {
			result = append(result, cur)
			cur = cur.Neighbor(d)
		}
	}
	return result
}

// SpiralInward returns every coordinate within radius of h, outermost ring
// first and h itself last.
func (h HexCoord) SpiralInward(radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	result := make([]HexCoord, 0, 1+3*radius*(radius+1))
	for k := radius; k > 0; k-- {
		result = append(result, h.Ring(k)...)
	}
	return append(result, h)
}

// DirectionTo returns the direction from a to b when they are adjacent.
func DirectionTo(a, b HexCoord) (Direction, bool) {
	diff := HexCoord{Q: b.Q - a.Q, R: b.R - a.R, S: b.S - a.S}
	for i, v := range directionVectors {
		if v == diff {
			return Direction(i), true
		}
	}
	return 0, false
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S - b.S)
	return max(dq, dr, ds)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
