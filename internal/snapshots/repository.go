// Package snapshots persists the summary produced by each refresh cycle.
// Summaries are stored as msgpack blobs with a few extracted columns for
// cheap listing, backing the dashboard's history endpoint.
package snapshots

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/amader/portsync/internal/modules/portfolio"
)

// Schema creates the snapshots table.
const Schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    data_source TEXT NOT NULL,
    total_value REAL NOT NULL,
    total_cost REAL NOT NULL,
    total_gain_loss REAL NOT NULL,
    data BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
`

// InitSchema creates the snapshot tables if they do not exist.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to initialize snapshots schema: %w", err)
	}
	return nil
}

// Meta is the listing view of one stored snapshot.
type Meta struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	DataSource    string    `json:"data_source"`
	TotalValue    float64   `json:"total_value"`
	TotalCost     float64   `json:"total_cost"`
	TotalGainLoss float64   `json:"total_gain_loss"`
}

// Repository provides snapshot persistence.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new snapshot repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores one refresh cycle's summary under the given cycle id.
func (r *Repository) Save(id string, summary portfolio.Summary) error {
	blob, err := msgpack.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	_, err = r.db.Exec(
		"INSERT OR REPLACE INTO snapshots (id, created_at, data_source, total_value, total_cost, total_gain_loss, data) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, summary.LastUpdated.Unix(), summary.DataSource, summary.TotalValue, summary.TotalCost, summary.TotalGainLoss, blob,
	)
	if err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", id, err)
	}
	return nil
}

// Get decodes one stored summary by cycle id.
// Returns nil, nil when the id is unknown.
func (r *Repository) Get(id string) (*portfolio.Summary, error) {
	var blob []byte
	err := r.db.QueryRow("SELECT data FROM snapshots WHERE id = ?", id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", id, err)
	}

	var summary portfolio.Summary
	if err := msgpack.Unmarshal(blob, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return &summary, nil
}

// List returns snapshot metadata, newest first, up to limit entries.
func (r *Repository) List(limit int) ([]Meta, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		"SELECT id, created_at, data_source, total_value, total_cost, total_gain_loss FROM snapshots ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var createdAt int64
		if err := rows.Scan(&m.ID, &createdAt, &m.DataSource, &m.TotalValue, &m.TotalCost, &m.TotalGainLoss); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Prune deletes snapshots older than the given age.
// Returns the number of rows deleted.
func (r *Repository) Prune(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := r.db.Exec("DELETE FROM snapshots WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}
