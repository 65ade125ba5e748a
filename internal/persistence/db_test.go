package persistence

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talgya/hexmap/internal/mapdata"
	"github.com/talgya/hexmap/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testMap(seed int64) *mapdata.MapData {
	return &mapdata.MapData{
		Rows:         2,
		Columns:      2,
		Seed:         seed,
		Type:         world.TypeIslands,
		Size:         world.SizeMicro,
		Temperature:  world.TemperatureNormal,
		Humidity:     world.HumidityWet,
		TerrainMap:   []int{1, 3, 13, 2},
		LandscapeMap: []int{0, 18, 0, 15},
		RiverMap:     []int{0, 1, 99, 0},
		RiverTileDirections: mapdata.RiverDirections{
			world.NewHexCoord(1, 0, -1): {world.SW},
		},
	}
}

func TestSaveAndLoadMap(t *testing.T) {
	db := openTestDB(t)
	md := testMap(5)
	id, err := db.SaveMap(md)
	if err != nil {
		t.Fatalf("SaveMap: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("id %q is not a uuid", id)
	}
	back, err := db.LoadMap(id)
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if !md.Equal(back) {
		t.Fatalf("stored map differs from the saved one")
	}

	s, err := db.GetSummary(id)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if s.Type != "ISLANDS" || s.Seed != 5 || s.Rows != 2 || s.RiverTiles != 1 || s.PayloadSize == 0 {
		t.Fatalf("summary = %+v", s)
	}
	if d := s.Describe(); !strings.Contains(d, "ISLANDS MICRO NORMAL/WET seed=5") {
		t.Fatalf("Describe = %q", d)
	}
}

func TestLoadMissingMap(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.LoadMap("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadMap: %v", err)
	}
	if _, err := db.GetSummary("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSummary: %v", err)
	}
	if err := db.DeleteMap("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteMap: %v", err)
	}
}

func TestListAndDeleteMaps(t *testing.T) {
	db := openTestDB(t)
	var ids []string
	for seed := int64(1); seed <= 3; seed++ {
		id, err := db.SaveMap(testMap(seed))
		if err != nil {
			t.Fatalf("SaveMap: %v", err)
		}
		ids = append(ids, id)
	}

	list, err := db.ListMaps(2)
	if err != nil {
		t.Fatalf("ListMaps: %v", err)
	}
	if len(list) != 2 || list[0].ID != ids[2] {
		t.Fatalf("ListMaps = %+v, want newest first", list)
	}

	if err := db.DeleteMap(ids[0]); err != nil {
		t.Fatalf("DeleteMap: %v", err)
	}
	if n, _ := db.CountMaps(); n != 2 {
		t.Fatalf("CountMaps = %d after delete", n)
	}

	events, err := db.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 4 || events[0].Action != "deleted" || events[0].MapID != ids[0] {
		t.Fatalf("events = %+v", events)
	}
}

func TestSaveRejectsInvalidMap(t *testing.T) {
	db := openTestDB(t)
	md := testMap(1)
	md.TerrainMap = md.TerrainMap[:1]
	if _, err := db.SaveMap(md); !errors.Is(err, mapdata.ErrInvalid) {
		t.Fatalf("SaveMap: %v", err)
	}
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveMeta("last_seed", "42"); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	if err := db.SaveMeta("last_seed", "43"); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	v, err := db.GetMeta("last_seed")
	if err != nil || v != "43" {
		t.Fatalf("GetMeta = %q, %v", v, err)
	}
}
