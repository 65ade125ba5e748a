// Package persistence provides SQLite-based storage for generated maps.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexmap/internal/mapdata"
)

// ErrNotFound is returned when no map has the requested id.
var ErrNotFound = errors.New("map not found")

// DB wraps a SQLite connection for map storage.
type DB struct {
	conn *sqlx.DB
}

// MapSummary is a stored map without its layers.
type MapSummary struct {
	ID          string `db:"id" json:"id"`
	CreatedAt   int64  `db:"created_at" json:"createdAt"`
	Seed        int64  `db:"seed" json:"seed"`
	Type        string `db:"map_type" json:"type"`
	Size        string `db:"map_size" json:"size"`
	Temperature string `db:"temperature" json:"temperature"`
	Humidity    string `db:"humidity" json:"humidity"`
	Rows        int    `db:"map_rows" json:"rows"`
	Columns     int    `db:"map_columns" json:"columns"`
	RiverTiles  int    `db:"river_tiles" json:"riverTiles"`
	PayloadSize int64  `db:"payload_size" json:"payloadSize"`
}

// Created returns the creation time.
func (s MapSummary) Created() time.Time {
	return time.Unix(s.CreatedAt, 0)
}

// Describe renders a one line human readable summary.
func (s MapSummary) Describe() string {
	return fmt.Sprintf("%s  %s %s %s/%s seed=%d  %s tiles  %s  %s",
		s.ID, s.Type, s.Size, s.Temperature, s.Humidity, s.Seed,
		humanize.Comma(int64(s.Rows*s.Columns)),
		humanize.Bytes(uint64(s.PayloadSize)),
		humanize.Time(s.Created()))
}

// Event records a change to the store.
type Event struct {
	MapID  string `db:"map_id" json:"mapId"`
	Action string `db:"action" json:"action"`
	At     int64  `db:"at" json:"at"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		map_type TEXT NOT NULL,
		map_size TEXT NOT NULL,
		temperature TEXT NOT NULL,
		humidity TEXT NOT NULL,
		map_rows INTEGER NOT NULL,
		map_columns INTEGER NOT NULL,
		river_tiles INTEGER NOT NULL,
		payload_size INTEGER NOT NULL,
		payload BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		map_id TEXT NOT NULL,
		action TEXT NOT NULL,
		at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS store_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_maps_created ON maps(created_at);
	CREATE INDEX IF NOT EXISTS idx_maps_seed ON maps(seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMap stores md as a compressed archive and returns its new id.
func (db *DB) SaveMap(md *mapdata.MapData) (string, error) {
	if err := md.Validate(); err != nil {
		return "", err
	}
	payload, err := mapdata.Compress(md)
	if err != nil {
		return "", fmt.Errorf("compress map: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().Unix()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO maps
		(id, created_at, seed, map_type, map_size, temperature, humidity,
		 map_rows, map_columns, river_tiles, payload_size, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, now, md.Seed, md.Type.String(), md.Size.String(),
		md.Temperature.String(), md.Humidity.String(),
		md.Rows, md.Columns, len(md.RiverTileDirections), len(payload), payload,
	)
	if err != nil {
		return "", fmt.Errorf("insert map: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO events (map_id, action, at) VALUES (?, ?, ?)", id, "saved", now); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Debug("map saved", "id", id, "payload", humanize.Bytes(uint64(len(payload))))
	return id, nil
}

// LoadMap returns the map stored under id.
func (db *DB) LoadMap(id string) (*mapdata.MapData, error) {
	var payload []byte
	err := db.conn.Get(&payload, "SELECT payload FROM maps WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", id, err)
	}
	md, err := mapdata.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("decode map %s: %w", id, err)
	}
	return md, nil
}

// GetSummary returns the summary of one stored map.
func (db *DB) GetSummary(id string) (MapSummary, error) {
	var s MapSummary
	err := db.conn.Get(&s, `SELECT id, created_at, seed, map_type, map_size, temperature,
		humidity, map_rows, map_columns, river_tiles, payload_size FROM maps WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

// ListMaps returns the most recent maps, newest first.
func (db *DB) ListMaps(limit int) ([]MapSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var maps []MapSummary
	err := db.conn.Select(&maps, `SELECT id, created_at, seed, map_type, map_size, temperature,
		humidity, map_rows, map_columns, river_tiles, payload_size
		FROM maps ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	return maps, err
}

// CountMaps returns the number of stored maps.
func (db *DB) CountMaps() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM maps")
	return n, err
}

// DeleteMap removes a stored map.
func (db *DB) DeleteMap(id string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM maps WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec("INSERT INTO events (map_id, action, at) VALUES (?, ?, ?)", id, "deleted", time.Now().Unix()); err != nil {
		return err
	}
	return tx.Commit()
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]Event, error) {
	var events []Event
	err := db.conn.Select(&events,
		"SELECT map_id, action, at FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in store metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO store_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM store_meta WHERE key = ?", key)
	return value, err
}
