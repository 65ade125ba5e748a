package terrain

import (
	"math/rand"
	"testing"

	"github.com/talgya/hexmap/internal/world"
)

func TestEveryMapTypeGenerates(t *testing.T) {
	rows, cols, _ := world.ConvertMapSize(world.SizeMicro)
	for _, mt := range world.MapTypes() {
		m, err := Generate(rand.New(rand.NewSource(1)), mt, rows, cols, false)
		if err != nil {
			t.Fatalf("%s: %v", mt, err)
		}
		if len(m.Hexes) != rows*cols {
			t.Fatalf("%s: %d tiles, want %d", mt, len(m.Hexes), rows*cols)
		}
		for i, h := range m.Hexes {
			if h.Terrain < world.MinTerrain || h.Terrain > world.MaxTerrain {
				t.Fatalf("%s: tile %d has terrain %d", mt, i, h.Terrain)
			}
			if h.Continent != 0 {
				t.Fatalf("%s: tile %d still carries continent tag %d", mt, i, h.Continent)
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	rows, cols, _ := world.ConvertMapSize(world.SizeTiny)
	for _, mt := range []world.MapType{world.TypeContinents, world.TypeInlandSea, world.TypeArchipelago} {
		a, _ := Generate(rand.New(rand.NewSource(99)), mt, rows, cols, false)
		b, _ := Generate(rand.New(rand.NewSource(99)), mt, rows, cols, false)
		ac, bc := a.TerrainCodes(), b.TerrainCodes()
		for i := range ac {
			if ac[i] != bc[i] {
				t.Fatalf("%s: tile %d differs between identical seeds", mt, i)
			}
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := Generate(rng, world.MapType(42), 10, 10, false); err == nil {
		t.Fatalf("expected error for unknown map type")
	}
	if _, err := Generate(rng, world.TypeLakes, 0, 10, false); err == nil {
		t.Fatalf("expected error for zero rows")
	}
}

func TestHighlandShape(t *testing.T) {
	rows, cols, _ := world.ConvertMapSize(world.SizeSmall)
	m, err := Generate(rand.New(rand.NewSource(5)), world.TypeHighland, rows, cols, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	n := m.HexCount()
	water := m.Count(world.ShallowWater, world.DeepWater)
	if water == 0 || water > int(float64(n)*0.15)+1 {
		t.Fatalf("water tiles = %d of %d", water, n)
	}
	mountains := m.Count(world.Mountain)
	if mountains == 0 || mountains > int(float64(n)*0.1) {
		t.Fatalf("mountains = %d of %d", mountains, n)
	}
	if m.Count(world.PlainHills) == 0 {
		t.Fatalf("highland without hills")
	}
}

func TestContinentsHaveLandAndWater(t *testing.T) {
	rows, cols, _ := world.ConvertMapSize(world.SizeSmall)
	for _, mt := range []world.MapType{world.TypeContinents, world.TypeSmallContinents, world.TypeContinentsIslands, world.TypeIslands, world.TypeArchipelago} {
		m, err := Generate(rand.New(rand.NewSource(3)), mt, rows, cols, false)
		if err != nil {
			t.Fatalf("%s: %v", mt, err)
		}
		land := m.HexCount() - m.Count(world.ShallowWater, world.DeepWater)
		if land == 0 || land == m.HexCount() {
			t.Fatalf("%s: land tiles = %d of %d", mt, land, m.HexCount())
		}
		n, _ := world.CountLandmasses(m.TerrainCodes(), m.Columns, m.Rows, world.WaterCodes, 1)
		if n < 2 {
			t.Fatalf("%s: %d landmasses, want several", mt, n)
		}
	}
}

func TestHeightmapSuperContinent(t *testing.T) {
	rows, cols, _ := world.ConvertMapSize(world.SizeTiny)
	m, err := Generate(rand.New(rand.NewSource(8)), world.TypeSuperContinent, rows, cols, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	codes := m.TerrainCodes()
	if n, _ := world.CountLandmasses(codes, cols, rows, world.WaterCodes, landmassThreshold); n != 1 {
		t.Fatalf("landmasses = %d, want 1", n)
	}
	if share := world.MatchPercentage(codes, world.WaterCodes); share > 1-superContinentLand+1e-9 {
		t.Fatalf("water share = %v", share)
	}
	elevated := 0
	for _, h := range m.Hexes {
		if h.Elevation > 0 {
			elevated++
		}
	}
	if elevated == 0 {
		t.Fatalf("heightmap tiles must carry elevation")
	}
}

func TestHeightmapInlandSea(t *testing.T) {
	rows, cols, _ := world.ConvertMapSize(world.SizeTiny)
	m, err := Generate(rand.New(rand.NewSource(8)), world.TypeInlandSea, rows, cols, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if share := world.MatchPercentage(m.TerrainCodes(), world.WaterCodes); share < 0.3 {
		t.Fatalf("water share = %v, want at least 0.3", share)
	}
}

func TestRangeDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		if v := (Range{5, 8}).Draw(rng); v < 5 || v >= 8 {
			t.Fatalf("draw %d outside [5,8)", v)
		}
	}
	if v := (Range{3, 3}).Draw(rng); v != 3 {
		t.Fatalf("empty range draw = %d", v)
	}
}
