package world

import (
	"encoding/json"
	"testing"
)

func TestOffsetCubeRoundTrip(t *testing.T) {
	for row := 0; row < 9; row++ {
		for col := 0; col < 7; col++ {
			o := Offset{Col: col, Row: row}
			c := o.Cube()
			if !c.Valid() {
				t.Fatalf("cube %v from %v is invalid", c, o)
			}
			if c.R != row {
				t.Fatalf("cube r=%d, want row %d", c.R, row)
			}
			if back := c.Offset(); back != o {
				t.Fatalf("round trip %v -> %v -> %v", o, c, back)
			}
		}
	}
}

func TestNewHexCoordPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for q+r+s != 0")
		}
	}()
	NewHexCoord(1, 1, 1)
}

func TestRingAndSpiralSizes(t *testing.T) {
	c := NewHexCoord(2, -1, -1)
	if got := c.Ring(0); len(got) != 1 || got[0] != c {
		t.Fatalf("ring 0 = %v, want [center]", got)
	}
	for r := 1; r <= 5; r++ {
		ring := c.Ring(r)
		if len(ring) != 6*r {
			t.Fatalf("ring %d has %d cells, want %d", r, len(ring), 6*r)
		}
		seen := map[HexCoord]bool{}
		for _, h := range ring {
			if Distance(c, h) != r {
				t.Fatalf("ring %d cell %v at distance %d", r, h, Distance(c, h))
			}
			if seen[h] {
				t.Fatalf("ring %d repeats %v", r, h)
			}
			seen[h] = true
		}
		if ring[0] != c.Add(W.Vector().Scale(r)) {
			t.Fatalf("ring %d starts at %v, want W corner", r, ring[0])
		}

		spiral := c.SpiralInward(r)
		if want := 1 + 3*r*(r+1); len(spiral) != want {
			t.Fatalf("spiral %d has %d cells, want %d", r, len(spiral), want)
		}
		if spiral[len(spiral)-1] != c {
			t.Fatalf("spiral %d must end at the center", r)
		}
		if Distance(c, spiral[0]) != r {
			t.Fatalf("spiral %d must start on the outer ring", r)
		}
	}
}

func TestDistance(t *testing.T) {
	a := NewHexCoord(0, 0, 0)
	b := NewHexCoord(3, -1, -2)
	if Distance(a, b) != 3 || Distance(b, a) != 3 {
		t.Fatalf("distance = %d/%d, want 3", Distance(a, b), Distance(b, a))
	}
	if Distance(b, b) != 0 {
		t.Fatalf("distance to self must be 0")
	}
}

func TestDirectionTo(t *testing.T) {
	c := NewHexCoord(1, 1, -2)
	for _, d := range Directions {
		got, ok := DirectionTo(c, c.Neighbor(d))
		if !ok || got != d {
			t.Fatalf("DirectionTo neighbor %s = %s, %v", d, got, ok)
		}
		back, _ := DirectionTo(c.Neighbor(d), c)
		if back != d.Opposite() {
			t.Fatalf("back direction of %s = %s, want %s", d, back, d.Opposite())
		}
	}
	if _, ok := DirectionTo(c, c.Add(NewHexCoord(2, -2, 0))); ok {
		t.Fatalf("non-adjacent cells must not have a direction")
	}
}

func TestHexCoordText(t *testing.T) {
	m := map[HexCoord][]Direction{NewHexCoord(1, -3, 2): {NE, SW}}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"1,-3,2":["NE","SW"]}` {
		t.Fatalf("json = %s", data)
	}
	var back map[HexCoord][]Direction
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := back[NewHexCoord(1, -3, 2)]; len(got) != 2 || got[0] != NE || got[1] != SW {
		t.Fatalf("round trip = %v", back)
	}

	var c HexCoord
	if err := c.UnmarshalText([]byte("1,1,1")); err == nil {
		t.Fatalf("expected error for invalid cube text")
	}
	if err := c.UnmarshalText([]byte("1,2")); err == nil {
		t.Fatalf("expected error for short cube text")
	}
}
