package mapgen

import (
	"testing"

	"github.com/talgya/hexmap/internal/world"
)

func TestGenerateIsDeterministic(t *testing.T) {
	for _, mt := range world.MapTypes() {
		a, err := New(42).Generate(mt, world.SizeMicro, world.TemperatureNormal, world.HumidityNormal, 1)
		if err != nil {
			t.Fatalf("%s: %v", mt, err)
		}
		b, err := New(42).Generate(mt, world.SizeMicro, world.TemperatureNormal, world.HumidityNormal, 1)
		if err != nil {
			t.Fatalf("%s: %v", mt, err)
		}
		if !a.Equal(b) {
			t.Fatalf("%s: identical seeds produced different maps", mt)
		}
	}
}

func TestGenerateLayerLengths(t *testing.T) {
	md, err := New(1).Generate(world.TypeLakes, world.SizeHuge, world.TemperatureCold, world.HumidityWet, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if md.Rows != 66 || md.Columns != 106 {
		t.Fatalf("huge map is %dx%d", md.Rows, md.Columns)
	}
	n := md.Rows * md.Columns
	if len(md.TerrainMap) != n || len(md.LandscapeMap) != n || len(md.RiverMap) != n {
		t.Fatalf("layer lengths %d/%d/%d, want %d", len(md.TerrainMap), len(md.LandscapeMap), len(md.RiverMap), n)
	}
	if md.Type != world.TypeLakes || md.Size != world.SizeHuge || md.Temperature != world.TemperatureCold || md.Humidity != world.HumidityWet {
		t.Fatalf("tags not recorded: %+v", md)
	}
}

func TestNoRiversWithoutRiverFactor(t *testing.T) {
	for _, mt := range world.MapTypes() {
		md, err := New(7).Generate(mt, world.SizeTiny, world.TemperatureNormal, world.HumidityNormal, 0)
		if err != nil {
			t.Fatalf("%s: %v", mt, err)
		}
		if len(md.RiverTileDirections) != 0 {
			t.Fatalf("%s: %d river tiles with river factor 0", mt, len(md.RiverTileDirections))
		}
		for i, r := range md.RiverMap {
			if r != int(world.NoRiver) {
				t.Fatalf("%s: river code %d at %d", mt, r, i)
			}
		}
	}
}

func TestHighlandGrowsRivers(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		md, err := New(seed).Generate(world.TypeHighland, world.SizeMedium, world.TemperatureNormal, world.HumidityWet, 2)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(md.RiverTileDirections) == 0 {
			continue
		}
		for c, dirs := range md.RiverTileDirections {
			if len(dirs) == 0 {
				t.Fatalf("empty direction list at %v", c)
			}
		}
		return
	}
	t.Fatalf("no seed produced rivers on a highland map")
}

func TestSeedsDiffer(t *testing.T) {
	a, _ := New(1).Generate(world.TypeContinents, world.SizeSmall, world.TemperatureNormal, world.HumidityNormal, 1)
	b, _ := New(2).Generate(world.TypeContinents, world.SizeSmall, world.TemperatureNormal, world.HumidityNormal, 1)
	if a.Equal(b) {
		t.Fatalf("different seeds produced the same map")
	}
}

func TestHeightmapVariant(t *testing.T) {
	g := New(3)
	g.UseHeightmap = true
	md, err := g.Generate(world.TypeSuperContinent, world.SizeTiny, world.TemperatureHot, world.HumidityDry, 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n, _ := world.CountLandmasses(md.TerrainMap, md.Columns, md.Rows, world.WaterCodes, 25); n != 1 {
		t.Fatalf("super continent has %d large landmasses", n)
	}
}

func TestGenerateRejectsBadOptions(t *testing.T) {
	bad := []Options{
		{Type: world.TypeLakes, Size: world.MapSize(9)},
		{Type: world.MapType(20), Size: world.SizeMicro},
		{Type: world.TypeLakes, Size: world.SizeMicro, Temperature: world.Temperature(5)},
		{Type: world.TypeLakes, Size: world.SizeMicro, Humidity: world.Humidity(-1)},
		{Type: world.TypeLakes, Size: world.SizeMicro, RiverFactor: -1},
	}
	for i, opts := range bad {
		if _, err := Generate(opts); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
