// Package persistence provides SQLite-backed game state storage. The full
// GameState is persisted as one zstd-compressed JSON snapshot per turn, with
// turn summaries broken out into queryable rows.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/talgya/tribelands/internal/game"
)

// DB wraps a SQLite connection for game state persistence.
type DB struct {
	conn *sqlx.DB
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	db := &DB{conn: conn, enc: enc, dec: dec}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.enc.Close()
	db.dec.Close()
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		turn INTEGER PRIMARY KEY,
		state BLOB NOT NULL,
		saved_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS turn_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		tribe_id TEXT NOT NULL,
		line TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_turn ON turn_history(turn);
	CREATE INDEX IF NOT EXISTS idx_history_tribe ON turn_history(tribe_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveState writes one full snapshot of the game plus the queryable summary
// rows for the most recently resolved turn.
func (db *DB) SaveState(st *game.GameState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	blob := db.enc.EncodeAll(raw, nil)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO snapshots (turn, state) VALUES (?, ?)",
		st.Turn, blob,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if len(st.History) > 0 {
		rec := st.History[len(st.History)-1]
		if _, err := tx.Exec("DELETE FROM turn_history WHERE turn = ?", rec.Turn); err != nil {
			return err
		}
		for tribeID, lines := range rec.Summaries {
			for _, line := range lines {
				if _, err := tx.Exec(
					"INSERT INTO turn_history (turn, tribe_id, line) VALUES (?, ?, ?)",
					rec.Turn, tribeID, line,
				); err != nil {
					return fmt.Errorf("insert history row: %w", err)
				}
			}
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('last_turn', ?)",
		fmt.Sprintf("%d", st.Turn),
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("game state saved", "turn", st.Turn, "bytes", len(blob))
	return nil
}

// LoadLatest restores the most recent snapshot.
func (db *DB) LoadLatest() (*game.GameState, error) {
	var blob []byte
	err := db.conn.Get(&blob, "SELECT state FROM snapshots ORDER BY turn DESC LIMIT 1")
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	raw, err := db.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	var st game.GameState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &st, nil
}

// HasState reports whether any snapshot exists.
func (db *DB) HasState() (bool, error) {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM snapshots"); err != nil {
		return false, err
	}
	return count > 0, nil
}

// HistoryLine is one queryable turn summary row.
type HistoryLine struct {
	Turn    int    `db:"turn" json:"turn"`
	TribeID string `db:"tribe_id" json:"tribe_id"`
	Line    string `db:"line" json:"line"`
}

// TribeHistory returns the most recent summary lines for one tribe.
func (db *DB) TribeHistory(tribeID string, limit int) ([]HistoryLine, error) {
	var lines []HistoryLine
	err := db.conn.Select(&lines,
		"SELECT turn, tribe_id, line FROM turn_history WHERE tribe_id = ? ORDER BY id DESC LIMIT ?",
		tribeID, limit,
	)
	return lines, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// PruneSnapshots keeps only the most recent keep snapshots.
func (db *DB) PruneSnapshots(keep int) error {
	_, err := db.conn.Exec(`DELETE FROM snapshots WHERE turn NOT IN (
		SELECT turn FROM snapshots ORDER BY turn DESC LIMIT ?)`, keep)
	return err
}
