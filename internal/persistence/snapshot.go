package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/talgya/antcolony/internal/engine"
)

// KeepSnapshots is how many snapshots PruneSnapshots retains by default.
const KeepSnapshots = 10

// SaveSnapshot stores the colony snapshot as a zstd-compressed JSON blob
// and returns its ID.
func (db *DB) SaveSnapshot(s engine.Snapshot) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", fmt.Errorf("zstd writer: %w", err)
	}
	blob := enc.EncodeAll(raw, nil)
	_ = enc.Close()

	id := uuid.NewString()
	_, err = db.conn.Exec(
		"INSERT INTO snapshots (id, second, raw_size, blob) VALUES (?, ?, ?, ?)",
		id, s.Second, len(raw), blob,
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	slog.Info("snapshot saved", "id", id, "second", s.Second, "raw_bytes", len(raw), "stored_bytes", len(blob))
	return id, nil
}

// LatestSnapshot loads the most recent snapshot.
func (db *DB) LatestSnapshot() (engine.Snapshot, error) {
	var row struct {
		ID   string `db:"id"`
		Blob []byte `db:"blob"`
	}
	err := db.conn.Get(&row, "SELECT id, blob FROM snapshots ORDER BY second DESC, created_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("select snapshot: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(row.Blob, nil)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("decompress snapshot %s: %w", row.ID, err)
	}

	var s engine.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", row.ID, err)
	}
	return s, nil
}

// PruneSnapshots deletes all but the newest keep snapshots and returns
// how many were removed.
func (db *DB) PruneSnapshots(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := db.conn.Exec(`DELETE FROM snapshots WHERE id NOT IN
		(SELECT id FROM snapshots ORDER BY second DESC, created_at DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
