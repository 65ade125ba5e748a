package landscape

import (
	"math/rand"
	"testing"

	"github.com/talgya/hexmap/internal/terrain"
	"github.com/talgya/hexmap/internal/world"
)

// riverTestMap is an 11x11 plain with a mountain near the top and a shallow
// sea along the bottom three rows.
func riverTestMap() (*world.Map, *world.Hex) {
	m := world.NewMap(11, 11, world.Plain)
	for row := 8; row < 11; row++ {
		for col := 0; col < 11; col++ {
			m.At(col, row).Terrain = world.ShallowWater
		}
	}
	mountain := m.At(5, 2)
	mountain.Terrain = world.Mountain
	return m, mountain
}

func TestComputeRiversOnSimpleMap(t *testing.T) {
	succeeded := 0
	for seed := int64(1); seed <= 10; seed++ {
		m, mountain := riverTestMap()
		rivers := ComputeRivers(rand.New(rand.NewSource(seed)), m, 1, DefaultRiverbed)
		if len(rivers) == 0 {
			continue
		}
		succeeded++
		r := rivers[0]
		if r.Source != mountain.Coord {
			t.Fatalf("river source %v, want %v", r.Source, mountain.Coord)
		}
		if len(r.Bed) < MinRiverLength {
			t.Fatalf("river bed of %d tiles", len(r.Bed))
		}
		if world.Distance(r.Bed[0].Coord, mountain.Coord) != 1 {
			t.Fatalf("bed must start next to the mountain")
		}
		for i := 1; i < len(r.Bed); i++ {
			if world.Distance(r.Bed[i-1].Coord, r.Bed[i].Coord) != 1 {
				t.Fatalf("bed tiles %d and %d are not adjacent", i-1, i)
			}
		}
		last := r.Bed[len(r.Bed)-1]
		if _, d := m.FindNearest(last.Coord, 1, world.IsTerrain(world.ShallowWater)); d != 1 {
			t.Fatalf("bed must end next to water")
		}
		for _, h := range r.Bed {
			if h.River != world.RiverBed {
				t.Fatalf("bed tile %v marked %s", h.Coord, h.River)
			}
		}
		if len(r.Bank) == 0 {
			t.Fatalf("river without bank")
		}
		for _, h := range r.Bank {
			if h.River != world.RiverBank || h.Terrain.IsWater() || h.Terrain == world.Mountain {
				t.Fatalf("bad bank tile %+v", *h)
			}
		}
		area := 0
		for _, h := range m.Hexes {
			if h.River == world.RiverArea {
				area++
			}
		}
		if area == 0 {
			t.Fatalf("no buffer area around the river")
		}
		dirs := RiverDirections(r.Tiles())
		if len(dirs) == 0 {
			t.Fatalf("river without directions")
		}
		for c, list := range dirs {
			if len(list) == 0 {
				t.Fatalf("empty direction list at %v", c)
			}
		}
	}
	if succeeded == 0 {
		t.Fatalf("no seed produced a river")
	}
}

func TestComputeRiversNoneRequested(t *testing.T) {
	m, _ := riverTestMap()
	if rivers := ComputeRivers(rand.New(rand.NewSource(1)), m, 0, DefaultRiverbed); rivers != nil {
		t.Fatalf("got %d rivers", len(rivers))
	}
	for _, h := range m.Hexes {
		if h.River != world.NoRiver {
			t.Fatalf("map changed without rivers")
		}
	}
}

func TestMountainAtEdgeIsNoSource(t *testing.T) {
	m := world.NewMap(11, 11, world.Plain)
	m.At(5, 1).Terrain = world.Mountain
	m.At(5, 4).Terrain = world.ShallowWater
	if rivers := ComputeRivers(rand.New(rand.NewSource(1)), m, 3, DefaultRiverbed); len(rivers) != 0 {
		t.Fatalf("mountain within 2 rings of the edge produced a river")
	}
}

func TestRiverDirections(t *testing.T) {
	m := world.NewMap(3, 3, world.Plain)
	a := m.At(0, 0)
	b := m.At(1, 0)
	c := m.At(2, 2)
	a.River = world.RiverBed
	b.River = world.RiverBank
	c.River = world.RiverBank
	dirs := RiverDirections([]*world.Hex{a, b, c})
	if got := dirs[a.Coord]; len(got) != 1 || got[0] != world.E {
		t.Fatalf("directions of a = %v, want [E]", got)
	}
	if got := dirs[b.Coord]; len(got) != 1 || got[0] != world.W {
		t.Fatalf("directions of b = %v, want [W]", got)
	}
	if _, ok := dirs[c.Coord]; ok {
		t.Fatalf("isolated tile must have no entry")
	}

	merged := make(Directions)
	merged.Merge(dirs)
	merged.Merge(Directions{a.Coord: {world.E, world.SE}})
	if got := merged[a.Coord]; len(got) != 2 || got[1] != world.SE {
		t.Fatalf("merged = %v", got)
	}
}

func TestClimateChances(t *testing.T) {
	rows := 20
	if snowChance(0, rows, world.TemperatureHot) != 10 || snowChance(rows-1, rows, world.TemperatureHot) != 10 {
		t.Fatalf("pole rows always snow")
	}
	if snowChance(1, rows, world.TemperatureHot) != 0 {
		t.Fatalf("hot maps have no snow on row 1")
	}
	if snowChance(1, rows, world.TemperatureNormal) != 4 || snowChance(1, rows, world.TemperatureCold) != 6 {
		t.Fatalf("row 1 snow chances wrong")
	}
	if snowChance(2, rows, world.TemperatureCold) != 4 || snowChance(2, rows, world.TemperatureNormal) != 0 {
		t.Fatalf("row 2 snow chances wrong")
	}
	if tundraChance(1, rows, world.TemperatureHot) != 10 {
		t.Fatalf("row 1 tundra chance must be 10")
	}
	want := map[world.Temperature]int{world.TemperatureHot: 3, world.TemperatureNormal: 8, world.TemperatureCold: 9}
	for temp, c := range want {
		if got := tundraChance(rows-3, rows, temp); got != c {
			t.Fatalf("tundra chance %s = %d, want %d", temp, got, c)
		}
	}
	if tundraChance(3, rows, world.TemperatureCold) != 6 || tundraChance(4, rows, world.TemperatureCold) != 3 {
		t.Fatalf("cold maps extend tundra to rows 3 and 4")
	}
	if tundraChance(3, rows, world.TemperatureNormal) != 0 {
		t.Fatalf("normal maps have no tundra on row 3")
	}
}

func TestShapeHighland(t *testing.T) {
	rows, cols, _ := world.ConvertMapSize(world.SizeMedium)
	found := false
	for seed := int64(1); seed <= 5 && !found; seed++ {
		rng := rand.New(rand.NewSource(seed))
		m, err := terrain.Generate(rng, world.TypeHighland, rows, cols, false)
		if err != nil {
			t.Fatalf("terrain: %v", err)
		}
		opts := Options{Size: world.SizeMedium, Temperature: world.TemperatureCold, Humidity: world.HumidityNormal, RiverFactor: 2}
		res := Shape(rng, m, opts)
		if len(res.Rivers) > opts.RiverCount() {
			t.Fatalf("%d rivers, requested %d", len(res.Rivers), opts.RiverCount())
		}
		for c, list := range res.Directions {
			if len(list) == 0 {
				t.Fatalf("empty direction list at %v", c)
			}
		}
		for _, h := range m.Hexes {
			if h.Landscape != world.NoLandscape && (h.Landscape < world.Ice || h.Landscape > world.Volcano) {
				t.Fatalf("landscape code %d", h.Landscape)
			}
			switch h.River {
			case world.NoRiver, world.RiverBed, world.RiverArea, world.RiverBank:
			default:
				t.Fatalf("river code %d", h.River)
			}
		}
		for col := 0; col < cols; col++ {
			if h := m.At(col, 0); h.Terrain == world.Plain || h.Terrain == world.PlainHills {
				t.Fatalf("polar row still has %s at column %d", h.Terrain, col)
			}
		}
		if m.Count(world.Grass, world.GrassHills) == 0 {
			t.Fatalf("no grass painted")
		}
		found = len(res.Directions) > 0
	}
	if !found {
		t.Fatalf("no seed produced river directions")
	}
}

func TestRiverBankFollowsWholeBed(t *testing.T) {
	rows, cols, _ := world.ConvertMapSize(world.SizeMedium)
	rivers := 0
	for _, mt := range []world.MapType{world.TypeHighland, world.TypeContinents, world.TypeLakes} {
		for seed := int64(1); seed <= 15; seed++ {
			rng := rand.New(rand.NewSource(seed))
			m, err := terrain.Generate(rng, mt, rows, cols, false)
			if err != nil {
				t.Fatalf("terrain: %v", err)
			}
			for _, r := range ComputeRivers(rng, m, 6, 2) {
				rivers++
				for i, b := range r.Bed[:len(r.Bed)-1] {
					beside := false
					for _, h := range r.Bank {
						if world.Distance(h.Coord, b.Coord) == 1 {
							beside = true
							break
						}
					}
					if !beside {
						t.Fatalf("%s seed %d: bed tile %d of %d has no bank beside it", mt, seed, i, len(r.Bed))
					}
				}
				for _, h := range r.Bank {
					near := false
					for _, b := range r.Bed {
						if world.Distance(h.Coord, b.Coord) == 1 {
							near = true
							break
						}
					}
					if !near {
						t.Fatalf("%s seed %d: bank tile %v is not beside the bed", mt, seed, h.Coord)
					}
				}
			}
		}
	}
	if rivers == 0 {
		t.Fatalf("no rivers generated")
	}
}

func TestRiverAreaWidth(t *testing.T) {
	cases := []struct {
		riverbed int
		width    int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 4},
		{9, 4},
	}
	for _, tc := range cases {
		checked := false
		for seed := int64(1); seed <= 20 && !checked; seed++ {
			m, _ := riverTestMap()
			rivers := ComputeRivers(rand.New(rand.NewSource(seed)), m, 1, tc.riverbed)
			if len(rivers) == 0 {
				continue
			}
			checked = true
			bed := rivers[0].Bed
			for _, h := range m.Hexes {
				d := len(m.Hexes)
				for _, b := range bed {
					d = min(d, world.Distance(h.Coord, b.Coord))
				}
				switch {
				case d <= tc.width && h.River == world.NoRiver:
					t.Fatalf("riverbed %d: tile %v at distance %d left unreserved", tc.riverbed, h.Coord, d)
				case d > tc.width && h.River == world.RiverArea:
					t.Fatalf("riverbed %d: tile %v at distance %d reserved", tc.riverbed, h.Coord, d)
				}
			}
		}
		if !checked {
			t.Fatalf("riverbed %d: no seed produced a river", tc.riverbed)
		}
	}
}

func TestLandscapeFeaturesStayOnTheirTerrain(t *testing.T) {
	allowed := map[world.Landscape][]world.Terrain{
		world.Ice:     {world.ShallowWater, world.DeepWater},
		world.Reef:    {world.DeepWater},
		world.Oasis:   {world.Desert},
		world.Swamp:   {world.Grass, world.Plain, world.Tundra},
		world.Forest:  {world.Grass, world.Plain, world.Tundra, world.GrassHills, world.PlainHills, world.TundraHills},
		world.Jungle:  {world.Grass, world.Plain, world.GrassHills, world.PlainHills},
		world.Volcano: {world.Mountain},
	}
	rows, cols, _ := world.ConvertMapSize(world.SizeMedium)
	for _, temp := range []world.Temperature{world.TemperatureCold, world.TemperatureNormal, world.TemperatureHot} {
		oases := 0
		for seed := int64(1); seed <= 3; seed++ {
			rng := rand.New(rand.NewSource(seed))
			m, err := terrain.Generate(rng, world.TypeLakes, rows, cols, false)
			if err != nil {
				t.Fatalf("terrain: %v", err)
			}
			Shape(rng, m, Options{Size: world.SizeMedium, Temperature: temp, Humidity: world.HumidityDry, RiverFactor: 1})
			for _, h := range m.Hexes {
				if h.Landscape == world.NoLandscape {
					continue
				}
				on, ok := allowed[h.Landscape]
				if !ok || !world.IsTerrain(on...)(&h) {
					t.Fatalf("%s seed %d: %s on %s", temp, seed, h.Landscape, h.Terrain)
				}
				if h.Landscape == world.Oasis {
					oases++
				}
			}
		}
		if temp != world.TemperatureHot && oases > 0 {
			t.Fatalf("%s maps got %d oases", temp, oases)
		}
		if temp == world.TemperatureHot && oases == 0 {
			t.Fatalf("hot dry maps got no oasis")
		}
	}
}
