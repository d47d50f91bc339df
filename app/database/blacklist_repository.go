package database

import (
	"fmt"
	"time"

	"github.com/2008zhum-boop/radar-ai/app/monitor"
)

// BlacklistRepository handles database operations for blocked sources.
type BlacklistRepository struct {
	db *DB
}

func NewBlacklistRepository(db *DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

// Add inserts or refreshes a blocked source entry.
func (r *BlacklistRepository) Add(s monitor.BlacklistedSource) error {
	_, err := r.db.Exec(`
		INSERT INTO source_blacklist (source_name, category, reason, added_by, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_name) DO UPDATE SET
			category = excluded.category,
			reason = excluded.reason,
			added_by = excluded.added_by
	`, s.SourceName, s.Category, s.Reason, s.AddedBy, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("failed to add blacklisted source: %w", err)
	}
	return nil
}

func (r *BlacklistRepository) Remove(sourceName string) error {
	result, err := r.db.Exec(`DELETE FROM source_blacklist WHERE source_name = ?`, sourceName)
	if err != nil {
		return fmt.Errorf("failed to remove blacklisted source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("source %s not blacklisted", sourceName)
	}

	return nil
}

func (r *BlacklistRepository) List() ([]monitor.BlacklistedSource, error) {
	rows, err := r.db.Query(`
		SELECT source_name, category, reason, added_by, created_at
		FROM source_blacklist ORDER BY source_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blacklisted sources: %w", err)
	}
	defer rows.Close()

	var sources []monitor.BlacklistedSource
	for rows.Next() {
		var s monitor.BlacklistedSource
		var createdAt int64
		if err := rows.Scan(&s.SourceName, &s.Category, &s.Reason, &s.AddedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan blacklist row: %w", err)
		}
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blacklist rows: %w", err)
	}

	return sources, nil
}

// ListSources returns only the blocked source names, for the ingestion skip
// check.
func (r *BlacklistRepository) ListSources() ([]string, error) {
	rows, err := r.db.Query(`SELECT source_name FROM source_blacklist`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blacklisted source names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan source name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source names: %w", err)
	}

	return names, nil
}
