// Package persistence provides SQLite-based colony state storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/antcolony/internal/agents"
	"github.com/talgya/antcolony/internal/engine"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/social"
	"github.com/talgya/antcolony/internal/state"
	"github.com/talgya/antcolony/internal/world"
)

// Meta keys.
const (
	MetaLastSecond = "last_second"
	MetaSeed       = "seed"
)

// DB wraps a SQLite connection for colony state persistence.
type DB struct {
	conn *sqlx.DB
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
	CREATE TABLE IF NOT EXISTS ants (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		job TEXT NOT NULL,
		faction INTEGER NOT NULL,
		health REAL NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		hunger INTEGER NOT NULL,
		primary_state TEXT NOT NULL,
		preferred_state TEXT NOT NULL,
		born_at INTEGER NOT NULL,
		load_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS resources (
		id INTEGER PRIMARY KEY,
		type INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS nests (
		id INTEGER PRIMARY KEY,
		stored_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		second INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		meta_json TEXT
	);

	CREATE TABLE IF NOT EXISTS colony_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		second INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		raw_size INTEGER NOT NULL,
		blob BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_second ON events(second);
	CREATE INDEX IF NOT EXISTS idx_snapshots_second ON snapshots(second);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveAnts writes all ants to the database (full replace).
func (db *DB) SaveAnts(records []agents.Record) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ants"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO ants
		(id, name, job, faction, health, x, y, hunger,
		 primary_state, preferred_state, born_at, load_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		loadJSON, err := json.Marshal(r.Load)
		if err != nil {
			return fmt.Errorf("encode load of ant %d: %w", r.ID, err)
		}
		_, err = stmt.Exec(
			r.ID, r.Name, string(r.Job), r.Faction, r.Health, r.X, r.Y, r.Hunger,
			string(r.Primary), string(r.Preferred), r.BornAt, string(loadJSON),
		)
		if err != nil {
			return fmt.Errorf("insert ant %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

type antRow struct {
	ID        uint64  `db:"id"`
	Name      string  `db:"name"`
	Job       string  `db:"job"`
	Faction   uint64  `db:"faction"`
	Health    float64 `db:"health"`
	X         float64 `db:"x"`
	Y         float64 `db:"y"`
	Hunger    int     `db:"hunger"`
	Primary   string  `db:"primary_state"`
	Preferred string  `db:"preferred_state"`
	BornAt    uint64  `db:"born_at"`
	LoadJSON  string  `db:"load_json"`
}

// LoadAnts reads every saved ant ordered by ID.
func (db *DB) LoadAnts() ([]agents.Record, error) {
	var rows []antRow
	if err := db.conn.Select(&rows, "SELECT * FROM ants ORDER BY id"); err != nil {
		return nil, fmt.Errorf("select ants: %w", err)
	}
	out := make([]agents.Record, 0, len(rows))
	for _, row := range rows {
		r := agents.Record{
			ID:        agents.AntID(row.ID),
			Name:      row.Name,
			Job:       jobs.Type(row.Job),
			Faction:   social.FactionID(row.Faction),
			Health:    row.Health,
			X:         row.X,
			Y:         row.Y,
			Hunger:    row.Hunger,
			Primary:   state.Primary(row.Primary),
			Preferred: state.Primary(row.Preferred),
			BornAt:    row.BornAt,
		}
		if err := json.Unmarshal([]byte(row.LoadJSON), &r.Load); err != nil {
			return nil, fmt.Errorf("decode load of ant %d: %w", row.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// SaveResources writes the world resources (full replace).
func (db *DB) SaveResources(list []world.Resource) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM resources"); err != nil {
		return err
	}
	stmt, err := tx.Preparex("INSERT INTO resources (id, type, x, y) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range list {
		if _, err := stmt.Exec(r.ID, r.Type, r.Pos.X, r.Pos.Y); err != nil {
			return fmt.Errorf("insert resource %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// LoadResources reads every saved resource ordered by ID.
func (db *DB) LoadResources() ([]world.Resource, error) {
	var rows []struct {
		ID   uint64  `db:"id"`
		Type uint8   `db:"type"`
		X    float64 `db:"x"`
		Y    float64 `db:"y"`
	}
	if err := db.conn.Select(&rows, "SELECT id, type, x, y FROM resources ORDER BY id"); err != nil {
		return nil, fmt.Errorf("select resources: %w", err)
	}
	out := make([]world.Resource, len(rows))
	for i, row := range rows {
		out[i] = world.Resource{
			ID:   world.ResourceID(row.ID),
			Type: world.ResourceType(row.Type),
			Pos:  world.Point{X: row.X, Y: row.Y},
		}
	}
	return out, nil
}

// SaveNestStores writes nest store counts (full replace).
func (db *DB) SaveNestStores(stores map[social.NestID]map[world.ResourceType]int) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nests"); err != nil {
		return err
	}
	for id, store := range stores {
		raw, err := json.Marshal(store)
		if err != nil {
			return fmt.Errorf("encode nest %d: %w", id, err)
		}
		if _, err := tx.Exec("INSERT INTO nests (id, stored_json) VALUES (?, ?)", id, string(raw)); err != nil {
			return fmt.Errorf("insert nest %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadNestStores reads nest store counts keyed by nest ID.
func (db *DB) LoadNestStores() (map[social.NestID]map[world.ResourceType]int, error) {
	var rows []struct {
		ID     uint64 `db:"id"`
		Stored string `db:"stored_json"`
	}
	if err := db.conn.Select(&rows, "SELECT id, stored_json FROM nests"); err != nil {
		return nil, fmt.Errorf("select nests: %w", err)
	}
	out := make(map[social.NestID]map[world.ResourceType]int, len(rows))
	for _, row := range rows {
		store := make(map[world.ResourceType]int)
		if err := json.Unmarshal([]byte(row.Stored), &store); err != nil {
			return nil, fmt.Errorf("decode nest %d: %w", row.ID, err)
		}
		out[social.NestID(row.ID)] = store
	}
	return out, nil
}

// SaveEvents replaces the stored event log with the colony's recent events.
func (db *DB) SaveEvents(events []engine.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}
	for _, e := range events {
		var meta any
		if len(e.Meta) > 0 {
			raw, err := json.Marshal(e.Meta)
			if err != nil {
				return fmt.Errorf("encode event meta: %w", err)
			}
			meta = string(raw)
		}
		_, err := tx.Exec(
			"INSERT INTO events (second, description, category, meta_json) VALUES (?, ?, ?, ?)",
			e.Second, e.Description, e.Category, meta,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var rows []struct {
		Second      uint64         `db:"second"`
		Description string         `db:"description"`
		Category    string         `db:"category"`
		Meta        sql.NullString `db:"meta_json"`
	}
	err := db.conn.Select(&rows,
		"SELECT second, description, category, meta_json FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	events := make([]engine.Event, len(rows))
	for i, row := range rows {
		events[i] = engine.Event{Second: row.Second, Description: row.Description, Category: row.Category}
		if row.Meta.Valid {
			if err := json.Unmarshal([]byte(row.Meta.String), &events[i].Meta); err != nil {
				return nil, fmt.Errorf("decode event meta: %w", err)
			}
		}
	}
	return events, nil
}

// SaveMeta stores a key-value pair in colony metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO colony_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM colony_meta WHERE key = ?", key)
	return value, err
}

// HasColony reports whether a colony has been saved.
func (db *DB) HasColony() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM ants"); err != nil {
		return false
	}
	return n > 0
}

// LastSecond returns the saved simulated second, or 0.
func (db *DB) LastSecond() uint64 {
	v, err := db.GetMeta(MetaLastSecond)
	if err != nil {
		return 0
	}
	s, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return s
}

// SaveColony performs a full save of the colony tables.
func (db *DB) SaveColony(c *engine.Colony) error {
	records := c.Records()
	status := c.Status()
	slog.Info("saving colony state", "ants", len(records), "second", status.Second)

	if err := db.SaveAnts(records); err != nil {
		return fmt.Errorf("save ants: %w", err)
	}
	if err := db.SaveResources(c.ResourceList()); err != nil {
		return fmt.Errorf("save resources: %w", err)
	}
	if err := db.SaveNestStores(c.NestStores()); err != nil {
		return fmt.Errorf("save nests: %w", err)
	}
	if err := db.SaveEvents(c.RecentEvents(0)); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta(MetaLastSecond, strconv.FormatUint(status.Second, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta(MetaSeed, strconv.FormatInt(c.Tuning.Seed, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("colony state saved")
	return nil
}

// ErrNoSnapshot is returned when no snapshot has been stored.
var ErrNoSnapshot = errors.New("no snapshot stored")
