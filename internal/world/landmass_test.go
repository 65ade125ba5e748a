package world

import (
	"math/rand"
	"testing"
)

// 5 columns x 4 rows: a five tile landmass in the top-left corner and a two
// tile landmass on the right of row 2.
var landmassGrid = []int{
	3, 3, 1, 1, 1,
	3, 3, 1, 1, 1,
	3, 1, 1, 3, 3,
	1, 1, 2, 1, 1,
}

func TestCountLandmassesThreshold(t *testing.T) {
	water := []int{1, 2}
	cases := []struct {
		threshold int
		want      int
	}{
		{1, 2},
		{3, 1},
		{10, 0},
	}
	for _, c := range cases {
		got, _ := CountLandmasses(landmassGrid, 5, 4, water, c.threshold)
		if got != c.want {
			t.Fatalf("threshold %d: %d landmasses, want %d", c.threshold, got, c.want)
		}
	}
}

func TestCountLandmassesGroups(t *testing.T) {
	_, groups := CountLandmasses(landmassGrid, 5, 4, WaterCodes, 1)
	want := [][]int{{0, 1, 5, 6, 10}, {13, 14}}
	if len(groups) != len(want) {
		t.Fatalf("groups = %v", groups)
	}
	for i := range want {
		if len(groups[i]) != len(want[i]) {
			t.Fatalf("group %d = %v, want %v", i, groups[i], want[i])
		}
		for j := range want[i] {
			if groups[i][j] != want[i][j] {
				t.Fatalf("group %d = %v, want %v", i, groups[i], want[i])
			}
		}
	}
}

func TestCountLandmassesSizeMismatch(t *testing.T) {
	if n, groups := CountLandmasses([]int{3, 3}, 5, 4, WaterCodes, 1); n != 0 || groups != nil {
		t.Fatalf("mismatched layer must count nothing")
	}
}

func TestMatchPercentage(t *testing.T) {
	got := MatchPercentage(landmassGrid, WaterCodes)
	if want := 13.0 / 20.0; got != want {
		t.Fatalf("water share = %v, want %v", got, want)
	}
	if MatchPercentage(nil, WaterCodes) != 0 {
		t.Fatalf("empty layer must be 0")
	}
}

func TestClimateZonesPartitionRows(t *testing.T) {
	for _, rows := range []int{1, 2, 7, 26, 54, 66} {
		zones := ClimateZones(rows)
		seen := make(map[int]int)
		for k, z := range zones {
			for _, r := range z {
				if r < 0 || r >= rows {
					t.Fatalf("rows=%d zone %d holds row %d", rows, k, r)
				}
				seen[r]++
			}
		}
		for r := 0; r < rows; r++ {
			if seen[r] != 1 {
				t.Fatalf("rows=%d: row %d appears %d times", rows, r, seen[r])
			}
		}
	}
	zones := ClimateZones(54)
	if zones[0][0] != 0 || zones[0][1] != 53 {
		t.Fatalf("polar band must start at both poles: %v", zones[0])
	}
}

func TestNewDistribution(t *testing.T) {
	d := NewDistribution(1, 1, 2, 0)
	if d.Polar != 0.25 || d.Dry != 0.5 || d.Tropical != 0 {
		t.Fatalf("normalized = %+v", d)
	}
	if even := NewDistribution(0, 0, 0, 0); even.Temperate != 0.25 {
		t.Fatalf("zero input must give even split, got %+v", even)
	}
}

func TestAddRandomLandscapeQuota(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	m := NewMap(26, 44, Plain)
	n := AddRandomLandscape(rng, m, NewDistribution(0, 0.5, 0.1, 0.4), 100, Forest, Plain)
	if n != 100 {
		t.Fatalf("placed %d forests, want 100", n)
	}
	forests := 0
	for i := range m.Hexes {
		if m.Hexes[i].Landscape == Forest {
			forests++
		}
	}
	if forests != 100 {
		t.Fatalf("forest tiles = %d", forests)
	}
}

func TestAddRandomLandscapeKeepsExistingFeatures(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewMap(26, 44, Plain)
	for i := range m.Hexes {
		if i%2 == 0 {
			m.Hexes[i].Landscape = Swamp
		}
	}
	n := AddRandomLandscape(rng, m, NewDistribution(0, 1, 0, 0), 50, Forest, Plain)
	if n != 50 {
		t.Fatalf("placed %d forests, want 50", n)
	}
	for i := range m.Hexes {
		if i%2 == 0 && m.Hexes[i].Landscape != Swamp {
			t.Fatalf("tile %d lost its swamp to %s", i, m.Hexes[i].Landscape)
		}
	}
}

func TestScatterSharesLoopBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m := NewMap(26, 44, Plain)
	for _, row := range ClimateZones(m.Rows)[0] {
		for col := 0; col < m.Columns; col++ {
			m.At(col, row).Terrain = Mountain
		}
	}
	// The polar share can never be placed, so it spends every draw and the
	// temperate share gets none.
	n := AddRandomLandscape(rng, m, NewDistribution(0.5, 0.5, 0, 0), 20, Forest, Plain)
	if n != 0 {
		t.Fatalf("placed %d forests after the polar zone exhausted the budget", n)
	}

	n = AddRandomLandscape(rng, m, NewDistribution(0, 0.5, 0, 0.5), 20, Forest, Plain)
	if n != 20 {
		t.Fatalf("placed %d forests, want 20", n)
	}
}

func TestFindStartingPositions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewMap(20, 20, Plain)
	for row := 0; row < 20; row++ {
		m.At(10, row).Terrain = ShallowWater
	}
	passable := PassableLayer(m.TerrainCodes())
	starts, err := FindStartingPositions(rng, 4, passable, 20, 20)
	if err != nil {
		t.Fatalf("FindStartingPositions: %v", err)
	}
	if len(starts) != 4 {
		t.Fatalf("got %d starts", len(starts))
	}
	seen := map[Offset]bool{}
	for _, s := range starts {
		if passable[s.Row*20+s.Col] == 0 {
			t.Fatalf("start %v is not passable", s)
		}
		if seen[s] {
			t.Fatalf("duplicate start %v", s)
		}
		seen[s] = true
	}

	if _, err := FindStartingPositions(rng, 3, []int{1, 0, 1, 0}, 2, 2); err == nil {
		t.Fatalf("expected error for too little land")
	}
	if _, err := FindStartingPositions(rng, 0, passable, 20, 20); err == nil {
		t.Fatalf("expected error for n=0")
	}
}
