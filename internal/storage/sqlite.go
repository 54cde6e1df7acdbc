// Package storage persists visitor metrics and per-visitor language
// preferences in SQLite.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a visitor has no stored preference.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	language TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
CREATE TABLE IF NOT EXISTS preferences (
	visitor_id TEXT PRIMARY KEY,
	language TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`

// DB wraps the SQLite handle.
type DB struct {
	sql  *sql.DB
	salt string
	now  func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
// salt is mixed into visitor IP hashes.
func Open(ctx context.Context, path, salt string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{sql: sqlDB, salt: salt, now: time.Now}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.sql.Close()
}

// HashIP returns a salted, truncated hash so raw addresses are never stored.
func (db *DB) HashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip + db.salt))
	return hex.EncodeToString(hash[:])[:16]
}

// Visit is one tracked page view.
type Visit struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordVisit stores a page view with the visitor's IP hashed.
func (db *DB) RecordVisit(ctx context.Context, ip, userAgent, path, language string) error {
	_, err := db.sql.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, language, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, db.HashIP(ip), userAgent, path, language, db.now().UTC())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// CleanupVisits deletes visits older than retention and returns how many
// rows went away.
func (db *DB) CleanupVisits(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := db.now().Add(-retention).UTC()
	result, err := db.sql.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup visits: %w", err)
	}
	return result.RowsAffected()
}

// RecentVisits returns the newest visits first.
func (db *DB) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := db.sql.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), COALESCE(language, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Language, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// LoadPreference returns the raw stored language of a visitor.
func (db *DB) LoadPreference(ctx context.Context, visitorID string) (string, error) {
	var language string
	err := db.sql.QueryRowContext(ctx,
		`SELECT language FROM preferences WHERE visitor_id = ?`, visitorID,
	).Scan(&language)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load preference: %w", err)
	}
	return language, nil
}

// SavePreference upserts the language of a visitor.
func (db *DB) SavePreference(ctx context.Context, visitorID, language string) error {
	_, err := db.sql.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, language, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(visitor_id) DO UPDATE SET language = excluded.language, updated_at = excluded.updated_at
	`, visitorID, language, db.now().UTC())
	if err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	return nil
}

// Stats summarizes traffic and language choices for the admin dashboard.
type Stats struct {
	TotalVisitors    int64            `json:"total_visitors"`
	UniqueVisitors   int64            `json:"unique_visitors"`
	VisitorsToday    int64            `json:"visitors_today"`
	VisitorsThisWeek int64            `json:"visitors_this_week"`
	Preferences      map[string]int64 `json:"preferences"`
	RecentVisitors   []Visit          `json:"recent_visitors"`
}

func (db *DB) countLanguages(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := db.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count languages: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var language string
		var n int64
		if err := rows.Scan(&language, &n); err != nil {
			return nil, fmt.Errorf("scan language count: %w", err)
		}
		counts[language] = n
	}
	return counts, rows.Err()
}

// Stats gathers dashboard numbers. Preferences counts stored language
// choices, or the languages visits were served in when none are stored.
func (db *DB) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := db.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{startOfDay}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.Add(-7 * 24 * time.Hour)}},
	}
	for _, c := range counts {
		if err := db.sql.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count visitors: %w", err)
		}
	}

	var err error
	stats.Preferences, err = db.countLanguages(ctx, `SELECT language, COUNT(*) FROM preferences GROUP BY language`)
	if err != nil {
		return nil, err
	}
	// Cookie-backed preferences never reach the table.
	if len(stats.Preferences) == 0 {
		stats.Preferences, err = db.countLanguages(ctx, `
			SELECT language, COUNT(*) FROM visitors
			WHERE language IS NOT NULL AND language != ''
			GROUP BY language
		`)
		if err != nil {
			return nil, err
		}
	}

	stats.RecentVisitors, err = db.RecentVisits(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
