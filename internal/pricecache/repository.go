// Package pricecache provides persistent caching of resolved quote prices.
// Entries are stored with expiration timestamps; expired entries remain
// readable so the resolver can prefer a stale real price over canned data.
package pricecache

import (
	"database/sql"
	"fmt"
	"time"
)

// TTLQuote is how long a resolved price counts as fresh.
// Quotes move constantly, so freshness is short; staleness is still useful
// as a fallback when every live source is down.
const TTLQuote = 15 * time.Minute

// Schema creates the quotes table.
const Schema = `
CREATE TABLE IF NOT EXISTS quotes (
    symbol TEXT PRIMARY KEY,
    price REAL NOT NULL,
    source TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quotes_expires ON quotes(expires_at);
`

// InitSchema creates the cache tables if they do not exist.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to initialize price cache schema: %w", err)
	}
	return nil
}

// Entry is one cached quote with its provenance.
type Entry struct {
	Symbol string
	Price  float64
	Source string
}

// Repository provides cache operations for resolved prices.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new price cache repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Store saves a resolved price with expiration = now + ttl.
// Uses INSERT OR REPLACE to upsert.
func (r *Repository) Store(symbol string, price float64, source string, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).Unix()

	_, err := r.db.Exec(
		"INSERT OR REPLACE INTO quotes (symbol, price, source, expires_at) VALUES (?, ?, ?, ?)",
		symbol, price, source, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store quote for %s: %w", symbol, err)
	}
	return nil
}

// GetIfFresh returns the cached quote only if it has not expired.
// Returns nil, nil if the symbol is unknown or the entry is stale.
func (r *Repository) GetIfFresh(symbol string) (*Entry, error) {
	return r.get(symbol, true)
}

// Get returns the cached quote regardless of expiration status.
// Use this as a fallback when live sources fail - stale data beats no data.
// Returns nil, nil if the symbol is unknown.
func (r *Repository) Get(symbol string) (*Entry, error) {
	return r.get(symbol, false)
}

func (r *Repository) get(symbol string, freshOnly bool) (*Entry, error) {
	query := "SELECT symbol, price, source FROM quotes WHERE symbol = ?"
	args := []interface{}{symbol}
	if freshOnly {
		query += " AND expires_at > ?"
		args = append(args, time.Now().Unix())
	}

	entry := &Entry{}
	err := r.db.QueryRow(query, args...).Scan(&entry.Symbol, &entry.Price, &entry.Source)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}

	return entry, nil
}

// Delete removes a specific entry.
func (r *Repository) Delete(symbol string) error {
	if _, err := r.db.Exec("DELETE FROM quotes WHERE symbol = ?", symbol); err != nil {
		return fmt.Errorf("failed to delete quote for %s: %w", symbol, err)
	}
	return nil
}

// DeleteExpired removes entries that expired before the given cutoff.
// The cutoff keeps recently-stale prices around for the fallback path;
// only entries stale for longer than the cutoff window are dropped.
// Returns the number of rows deleted.
func (r *Repository) DeleteExpired(staleFor time.Duration) (int64, error) {
	cutoff := time.Now().Add(-staleFor).Unix()

	result, err := r.db.Exec("DELETE FROM quotes WHERE expires_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired quotes: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
