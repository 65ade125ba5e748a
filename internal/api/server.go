// Package api provides the HTTP API for generating and browsing maps.
// GET endpoints are public. DELETE requires a bearer token (admin).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexmap/internal/config"
	"github.com/talgya/hexmap/internal/entropy"
	"github.com/talgya/hexmap/internal/mapdata"
	"github.com/talgya/hexmap/internal/mapgen"
	"github.com/talgya/hexmap/internal/persistence"
	"github.com/talgya/hexmap/internal/tiled"
	"github.com/talgya/hexmap/internal/world"
)

// maxStarts caps the number of start positions per request.
const maxStarts = 16

// Server serves map generation and the map store over HTTP.
type Server struct {
	DB       *persistence.DB // nil disables the store endpoints
	Entropy  *entropy.Client
	Defaults config.Generation
	Tileset  tiled.TilesetOptions
	Port     int
	AdminKey string // Bearer token for DELETE endpoints. Empty = DELETE disabled.

	RateLimit  int
	RateWindow time.Duration

	started   time.Time
	generated atomic.Int64
}

// Handler builds the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	if s.started.IsZero() {
		s.started = time.Now()
	}
	rate, window := s.RateLimit, s.RateWindow
	if rate <= 0 {
		rate = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	generateLimiter := NewRateLimiter(rate, window)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/generate", RateLimitMiddleware(generateLimiter, s.handleGenerate))
	mux.HandleFunc("/api/v1/maps", s.handleMaps)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/map/", s.handleMapRoutes)
	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "store", s.DB != nil)

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no HEXMAP_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name":           "hexmap",
		"uptime":         humanize.RelTime(s.started, time.Now(), "", ""),
		"maps_generated": s.generated.Load(),
		"store":          s.DB != nil,
		"random_org":     s.Entropy.Enabled(),
		"map_types":      world.MapTypes(),
	}
	if s.DB != nil {
		if n, err := s.DB.CountMaps(); err == nil {
			status["stored_maps"] = n
		}
	}
	writeJSON(w, status)
}

type generateResponse struct {
	ID    string           `json:"id,omitempty"`
	Tiles string           `json:"tiles"`
	Map   *mapdata.MapData `json:"map"`
}

// handleGenerate generates a map from query parameters, falling back to the
// configured defaults. With store=true the map is also saved.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	opts, err := s.parseOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	md, err := mapgen.Generate(opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.generated.Add(1)
	slog.Info("map generated",
		"type", md.Type, "size", md.Size, "seed", md.Seed,
		"river_tiles", len(md.RiverTileDirections), "elapsed", time.Since(start))

	resp := generateResponse{Tiles: humanize.Comma(int64(md.TileCount())), Map: md}
	if r.URL.Query().Get("store") == "true" {
		if s.DB == nil {
			http.Error(w, "map store disabled", http.StatusServiceUnavailable)
			return
		}
		id, err := s.DB.SaveMap(md)
		if err != nil {
			slog.Error("store map failed", "error", err)
			http.Error(w, "store failed", http.StatusInternalServerError)
			return
		}
		resp.ID = id
	}
	writeJSON(w, resp)
}

func (s *Server) parseOptions(r *http.Request) (mapgen.Options, error) {
	d := s.Defaults
	opts := mapgen.Options{
		Seed:         d.Seed,
		Type:         d.Type,
		Size:         d.Size,
		Temperature:  d.Temperature,
		Humidity:     d.Humidity,
		RiverFactor:  d.RiverFactor,
		Riverbed:     d.Riverbed,
		UseHeightmap: d.UseHeightmap,
	}
	q := r.URL.Query()
	var err error
	if v := q.Get("type"); v != "" {
		if opts.Type, err = world.ParseMapType(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("size"); v != "" {
		if opts.Size, err = world.ParseMapSize(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("temperature"); v != "" {
		if opts.Temperature, err = world.ParseTemperature(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("humidity"); v != "" {
		if opts.Humidity, err = world.ParseHumidity(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("rivers"); v != "" {
		if opts.RiverFactor, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, fmt.Errorf("rivers: %w", err)
		}
	}
	if v := q.Get("seed"); v != "" {
		if opts.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return opts, fmt.Errorf("seed: %w", err)
		}
	}
	if v := q.Get("heightmap"); v != "" {
		if opts.UseHeightmap, err = strconv.ParseBool(v); err != nil {
			return opts, fmt.Errorf("heightmap: %w", err)
		}
	}
	opts.Seed = entropy.Resolve(s.Entropy, opts.Seed)
	return opts, nil
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	maps, err := s.DB.ListMaps(limit)
	if err != nil {
		slog.Error("list maps failed", "error", err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	if maps == nil {
		maps = []persistence.MapSummary{}
	}
	writeJSON(w, maps)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	events, err := s.DB.RecentEvents(limit)
	if err != nil {
		http.Error(w, "events failed", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []persistence.Event{}
	}
	writeJSON(w, events)
}

// handleMapRoutes dispatches /api/v1/map/{id}[/tiled|/starts].
func (s *Server) handleMapRoutes(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/map/"), "/")
	id, sub, _ := strings.Cut(path, "/")
	if id == "" {
		http.Error(w, "missing map id", http.StatusNotFound)
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodDelete:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request) { s.handleDeleteMap(w, id) })(w, r)
	case r.Method != http.MethodGet:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	case sub == "":
		s.handleMapDetail(w, id)
	case sub == "tiled":
		s.handleTiled(w, r, id)
	case sub == "starts":
		s.handleStarts(w, r, id)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) loadMap(w http.ResponseWriter, id string) (*mapdata.MapData, bool) {
	md, err := s.DB.LoadMap(id)
	if errors.Is(err, persistence.ErrNotFound) {
		http.Error(w, "map not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		slog.Error("load map failed", "id", id, "error", err)
		http.Error(w, "load failed", http.StatusInternalServerError)
		return nil, false
	}
	return md, true
}

func (s *Server) handleMapDetail(w http.ResponseWriter, id string) {
	md, ok := s.loadMap(w, id)
	if !ok {
		return
	}
	summary, err := s.DB.GetSummary(id)
	if err != nil {
		http.Error(w, "load failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"summary": summary,
		"created": humanize.Time(summary.Created()),
		"map":     md,
	})
}

func (s *Server) handleTiled(w http.ResponseWriter, r *http.Request, id string) {
	md, ok := s.loadMap(w, id)
	if !ok {
		return
	}
	combined, _ := strconv.ParseBool(r.URL.Query().Get("combined"))
	tm, err := tiled.Converter{Combined: combined}.Convert(md, s.tileset())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, tm)
}

// handleStarts returns n start positions spread over the map's land. The
// placement is seeded from the map seed so repeated requests agree.
func (s *Server) handleStarts(w http.ResponseWriter, r *http.Request, id string) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 1 || n > maxStarts {
		http.Error(w, fmt.Sprintf("n must be in [1,%d]", maxStarts), http.StatusBadRequest)
		return
	}
	md, ok := s.loadMap(w, id)
	if !ok {
		return
	}

	rng := rand.New(rand.NewSource(md.Seed))
	starts, err := world.FindStartingPositions(rng, n, world.PassableLayer(md.TerrainMap), md.Rows, md.Columns)
	if errors.Is(err, world.ErrNotEnoughLand) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	type startEntry struct {
		Col  int            `json:"col"`
		Row  int            `json:"row"`
		Cube world.HexCoord `json:"cube"`
	}
	out := make([]startEntry, len(starts))
	for i, o := range starts {
		out[i] = startEntry{Col: o.Col, Row: o.Row, Cube: o.Cube()}
	}
	writeJSON(w, out)
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, id string) {
	err := s.DB.DeleteMap(id)
	if errors.Is(err, persistence.ErrNotFound) {
		http.Error(w, "map not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	slog.Info("map deleted", "id", id)
	writeJSON(w, map[string]string{"deleted": id})
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.DB == nil {
		http.Error(w, "map store disabled", http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (s *Server) tileset() tiled.TilesetOptions {
	if s.Tileset == (tiled.TilesetOptions{}) {
		return tiled.DefaultTileset()
	}
	return s.Tileset
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
