// Package journal keeps a local, append-only record of every annotation
// push the session attempts. Delivery to the backend is fire-and-forget,
// so the journal is what a reviewer falls back on when a push was lost:
// the last recorded snapshot for a result id is always complete.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/casemark/depo-review/internal/annotation"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshot_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	result_id   TEXT NOT NULL,
	payload     TEXT NOT NULL,
	delivered   INTEGER NOT NULL,
	error       TEXT,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshot_log_result
	ON snapshot_log (result_id, id);
`

// Journal is an append-only SQLite log of snapshot pushes.
type Journal struct {
	db *sql.DB
}

// Record is one journalled push attempt.
type Record struct {
	ResultID  string
	Entries   []annotation.Entry
	Delivered bool
	Error     string
	CreatedAt time.Time
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records one push attempt. errMsg is empty for a delivered push.
func (j *Journal) Append(resultID string, entries []annotation.Entry, delivered bool, errMsg string) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	deliveredInt := 0
	if delivered {
		deliveredInt = 1
	}
	var errPtr interface{}
	if errMsg != "" {
		errPtr = errMsg
	}

	_, err = j.db.Exec(
		`INSERT INTO snapshot_log (result_id, payload, delivered, error, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		resultID, string(payload), deliveredInt, errPtr,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recent journalled snapshot for a result id.
func (j *Journal) Latest(resultID string) (Record, bool, error) {
	row := j.db.QueryRow(
		`SELECT result_id, payload, delivered, error, created_at
		 FROM snapshot_log WHERE result_id = ? ORDER BY id DESC LIMIT 1`,
		resultID,
	)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// History lists the most recent push attempts across all result ids.
func (j *Journal) History(limit int) ([]Record, error) {
	rows, err := j.db.Query(
		`SELECT result_id, payload, delivered, error, created_at
		 FROM snapshot_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var payload string
	var delivered int
	var errMsg sql.NullString
	var createdStr string

	if err := row.Scan(&rec.ResultID, &payload, &delivered, &errMsg, &createdStr); err != nil {
		return Record{}, err
	}

	if err := json.Unmarshal([]byte(payload), &rec.Entries); err != nil {
		return Record{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	rec.Delivered = delivered == 1
	if errMsg.Valid {
		rec.Error = errMsg.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}
