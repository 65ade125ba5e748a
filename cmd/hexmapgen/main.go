// Command hexmapgen generates hexagonal world maps. It prints, exports and
// stores single maps, or serves the generation API with -serve.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexmap/internal/api"
	"github.com/talgya/hexmap/internal/config"
	"github.com/talgya/hexmap/internal/entropy"
	"github.com/talgya/hexmap/internal/heightmap"
	"github.com/talgya/hexmap/internal/mapdata"
	"github.com/talgya/hexmap/internal/mapgen"
	"github.com/talgya/hexmap/internal/persistence"
	"github.com/talgya/hexmap/internal/tiled"
	"github.com/talgya/hexmap/internal/world"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config file")
		mapType     = flag.String("type", "", "map type (e.g. continents, inland_sea)")
		mapSize     = flag.String("size", "", "map size (micro..huge)")
		temperature = flag.String("temperature", "", "cold, normal or hot")
		humidity    = flag.String("humidity", "", "wet, normal or dry")
		rivers      = flag.Float64("rivers", -1, "river factor (rivers per size step)")
		seed        = flag.Int64("seed", 0, "seed (0 = fresh random seed)")
		useHeight   = flag.Bool("heightmap", false, "use heightmap generators where available")
		outPath     = flag.String("out", "", "write a compressed map archive")
		jsonPath    = flag.String("json", "", "write map JSON")
		tiledPath   = flag.String("tiled", "", "write Tiled map JSON")
		combined    = flag.Bool("combined", false, "Tiled export with one combined tileset")
		dbPath      = flag.String("db", "", "store the map in this SQLite database")
		players     = flag.Int("players", 0, "print this many start positions")
		noisePath   = flag.String("noise", "", "write the seed's Perlin heightmap (.bmp or .pgm)")
		serve       = flag.Bool("serve", false, "serve the HTTP API")
		verbose     = flag.Bool("v", false, "debug logging and terrain printout")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// ── Request ───────────────────────────────────────────────────────
	gen := cfg.Generation
	if err := applyFlags(&gen, *mapType, *mapSize, *temperature, *humidity, *rivers); err != nil {
		slog.Error("invalid flag", "error", err)
		os.Exit(2)
	}
	if *seed != 0 {
		gen.Seed = *seed
	}
	if *useHeight {
		gen.UseHeightmap = true
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	seeds := entropy.NewClient(cfg.API.RandomOrgAPIKey)
	if seeds.Enabled() {
		slog.Info("random.org seed source enabled")
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if *serve {
		runServer(cfg, gen, seeds)
		return
	}

	// ── Generation ────────────────────────────────────────────────────
	opts := mapgen.Options{
		Seed:         entropy.Resolve(seeds, gen.Seed),
		Type:         gen.Type,
		Size:         gen.Size,
		Temperature:  gen.Temperature,
		Humidity:     gen.Humidity,
		RiverFactor:  gen.RiverFactor,
		Riverbed:     gen.Riverbed,
		UseHeightmap: gen.UseHeightmap,
	}
	start := time.Now()
	md, err := mapgen.Generate(opts)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("map generated",
		"type", md.Type,
		"size", md.Size,
		"seed", md.Seed,
		"tiles", humanize.Comma(int64(md.TileCount())),
		"river_tiles", len(md.RiverTileDirections),
		"elapsed", time.Since(start),
	)
	if *verbose {
		md.Print(os.Stdout)
		printTerrainCounts(md)
	}

	// ── Outputs ───────────────────────────────────────────────────────
	if *outPath != "" {
		if err := mapdata.WriteFile(*outPath, md); err != nil {
			slog.Error("archive failed", "error", err)
			os.Exit(1)
		}
		logWritten("archive", *outPath)
	}
	if *jsonPath != "" {
		data, err := mapdata.MarshalJSON(md)
		if err == nil {
			err = writeFile(*jsonPath, data)
		}
		if err != nil {
			slog.Error("json export failed", "error", err)
			os.Exit(1)
		}
		logWritten("json", *jsonPath)
	}
	if *tiledPath != "" {
		data, err := tiled.Converter{Combined: *combined}.JSON(md, cfg.Tileset)
		if err == nil {
			err = writeFile(*tiledPath, data)
		}
		if err != nil {
			slog.Error("tiled export failed", "error", err)
			os.Exit(1)
		}
		logWritten("tiled", *tiledPath)
	}
	if *noisePath != "" {
		if err := writeNoise(*noisePath, md); err != nil {
			slog.Error("heightmap export failed", "error", err)
			os.Exit(1)
		}
		logWritten("heightmap", *noisePath)
	}
	if *players > 0 {
		rng := rand.New(rand.NewSource(md.Seed))
		starts, err := world.FindStartingPositions(rng, *players, world.PassableLayer(md.TerrainMap), md.Rows, md.Columns)
		if err != nil {
			slog.Error("start positions failed", "error", err)
			os.Exit(1)
		}
		for i, s := range starts {
			fmt.Printf("player %d: col=%d row=%d cube=%s\n", i+1, s.Col, s.Row, s.Cube())
		}
	}

	// ── Store ─────────────────────────────────────────────────────────
	if *dbPath != "" {
		db, err := openStore(cfg.Store.Path)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		id, err := db.SaveMap(md)
		if err != nil {
			slog.Error("store failed", "error", err)
			os.Exit(1)
		}
		if err := db.SaveMeta("last_seed", fmt.Sprint(md.Seed)); err != nil {
			slog.Warn("save meta failed", "error", err)
		}
		fmt.Printf("stored map %s\n", id)
	}
}

// applyFlags overrides generation settings with the flags that were given.
func applyFlags(gen *config.Generation, mapType, mapSize, temperature, humidity string, rivers float64) error {
	var err error
	if mapType != "" {
		if gen.Type, err = world.ParseMapType(mapType); err != nil {
			return err
		}
	}
	if mapSize != "" {
		if gen.Size, err = world.ParseMapSize(mapSize); err != nil {
			return err
		}
	}
	if temperature != "" {
		if gen.Temperature, err = world.ParseTemperature(temperature); err != nil {
			return err
		}
	}
	if humidity != "" {
		if gen.Humidity, err = world.ParseHumidity(humidity); err != nil {
			return err
		}
	}
	if rivers >= 0 {
		gen.RiverFactor = rivers
	}
	return nil
}

func runServer(cfg config.Config, gen config.Generation, seeds *entropy.Client) {
	db, err := openStore(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if n, err := db.CountMaps(); err == nil {
		slog.Info("database opened", "path", cfg.Store.Path, "maps", n)
	}
	if cfg.API.AdminKey == "" {
		slog.Warn(config.EnvAdminKey + " not set, DELETE endpoints are disabled")
	}

	srv := &api.Server{
		DB:         db,
		Entropy:    seeds,
		Defaults:   gen,
		Tileset:    cfg.Tileset,
		Port:       cfg.API.Port,
		AdminKey:   cfg.API.AdminKey,
		RateLimit:  cfg.API.RateLimit,
		RateWindow: time.Duration(cfg.API.RateWindowSecs) * time.Second,
	}
	srv.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.API.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}

func openStore(path string) (*persistence.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return persistence.Open(path)
}

// writeNoise exports the raw Perlin field for the map's seed and size.
func writeNoise(path string, md *mapdata.MapData) error {
	g := heightmap.NewGenerator(md.Seed)
	field, err := g.PerlinNoise(md.Columns, md.Rows, heightmap.DefaultScale, heightmap.DefaultOctaves,
		heightmap.DefaultPersistence, heightmap.DefaultLacunarity)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".pgm") {
		err = heightmap.WritePGM(f, field)
	} else {
		err = heightmap.WriteBMP(f, field)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func logWritten(kind, path string) {
	size := "?"
	if st, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(st.Size()))
	}
	slog.Info("written", "kind", kind, "path", path, "size", size)
}

func printTerrainCounts(md *mapdata.MapData) {
	counts := make(map[world.Terrain]int)
	for _, c := range md.TerrainMap {
		counts[world.Terrain(c)]++
	}
	for t := world.MinTerrain; t <= world.MaxTerrain; t++ {
		if counts[t] > 0 {
			slog.Info("terrain", "type", world.TerrainName(t), "count", humanize.Comma(int64(counts[t])))
		}
	}
}
