package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/2008zhum-boop/radar-ai/app/monitor"
)

// MentionRepository handles database operations for mentions, both the
// unattributed global pool (client_id IS NULL) and client-scoped rows.
type MentionRepository struct {
	db *DB
}

func NewMentionRepository(db *DB) *MentionRepository {
	return &MentionRepository{db: db}
}

const mentionColumns = `id, COALESCE(client_id, ''), source, title, content_text, url,
		       publish_time, sentiment_score, risk_level, match_detail,
		       clean_status, content_hash, is_duplicate, created_at`

// Insert stores a mention. It returns false without error when a uniqueness
// index rejected the row (either the global url index or the per-client
// (client_id, url) index), which callers treat as "already present".
func (r *MentionRepository) Insert(m monitor.Mention) (bool, error) {
	clientID := sql.NullString{String: m.ClientID, Valid: m.ClientID != ""}

	result, err := r.db.Exec(`
		INSERT OR IGNORE INTO mentions (
			client_id, source, title, content_text, url, publish_time,
			sentiment_score, risk_level, match_detail, clean_status,
			content_hash, is_duplicate, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, clientID, m.Source, m.Title, m.ContentText, m.URL, m.PublishTime.Unix(),
		m.SentimentScore, m.RiskLevel, m.MatchDetail, m.CleanStatus,
		m.ContentHash, boolToInt(m.IsDuplicate), time.Now().UTC().Unix())

	if err != nil {
		return false, fmt.Errorf("failed to insert mention: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *MentionRepository) GetByID(id int64) (*monitor.Mention, error) {
	row := r.db.QueryRow(`SELECT `+mentionColumns+` FROM mentions WHERE id = ?`, id)
	return scanMention(row)
}

func (r *MentionRepository) GetGlobalByURL(url string) (*monitor.Mention, error) {
	row := r.db.QueryRow(`SELECT `+mentionColumns+` FROM mentions WHERE client_id IS NULL AND url = ?`, url)
	return scanMention(row)
}

func (r *MentionRepository) GetGlobalByHash(hash string) (*monitor.Mention, error) {
	row := r.db.QueryRow(`
		SELECT `+mentionColumns+` FROM mentions
		WHERE client_id IS NULL AND content_hash = ?
		ORDER BY id LIMIT 1`, hash)
	return scanMention(row)
}

func (r *MentionRepository) HasClientMention(clientID, url string) (bool, error) {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM mentions WHERE client_id = ? AND url = ? LIMIT 1`, clientID, url).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check client mention: %w", err)
	}
	return true, nil
}

// ListGlobalSince returns recent non-duplicate global-pool mentions, newest
// first, for rescan after a client configuration change.
func (r *MentionRepository) ListGlobalSince(from time.Time, limit int) ([]monitor.Mention, error) {
	rows, err := r.db.Query(`
		SELECT `+mentionColumns+` FROM mentions
		WHERE client_id IS NULL AND is_duplicate = 0 AND publish_time >= ?
		ORDER BY publish_time DESC
		LIMIT ?`, from.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list global mentions: %w", err)
	}
	defer rows.Close()

	return collectMentions(rows)
}

func (r *MentionRepository) Count(clientID string, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM mentions WHERE publish_time > ? AND publish_time <= ?`
	args := []any{from.Unix(), to.Unix()}
	if clientID != "" {
		query += ` AND client_id = ?`
		args = append(args, clientID)
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count mentions: %w", err)
	}
	return count, nil
}

func (r *MentionRepository) CountRisky(clientID string, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM mentions WHERE risk_level >= 2 AND publish_time > ? AND publish_time <= ?`
	args := []any{from.Unix(), to.Unix()}
	if clientID != "" {
		query += ` AND client_id = ?`
		args = append(args, clientID)
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count risky mentions: %w", err)
	}
	return count, nil
}

func (r *MentionRepository) SentimentBuckets(clientID string, from, to time.Time) (pos, neu, neg int, err error) {
	query := `
		SELECT
			SUM(CASE WHEN sentiment_score > 0.3 THEN 1 ELSE 0 END),
			SUM(CASE WHEN sentiment_score >= -0.1 AND sentiment_score <= 0.3 THEN 1 ELSE 0 END),
			SUM(CASE WHEN sentiment_score < -0.1 THEN 1 ELSE 0 END)
		FROM mentions WHERE publish_time > ? AND publish_time <= ?`
	args := []any{from.Unix(), to.Unix()}
	if clientID != "" {
		query += ` AND client_id = ?`
		args = append(args, clientID)
	}

	var p, n, ng sql.NullInt64
	if err := r.db.QueryRow(query, args...).Scan(&p, &n, &ng); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to compute sentiment buckets: %w", err)
	}
	return int(p.Int64), int(n.Int64), int(ng.Int64), nil
}

// DailyCounts returns a series of exactly `days` points ending today, with
// missing days filled with zero counts.
func (r *MentionRepository) DailyCounts(clientID string, days int) ([]monitor.TrendPoint, error) {
	from := time.Now().UTC().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	query := `
		SELECT date(publish_time, 'unixepoch') AS day, COUNT(*)
		FROM mentions WHERE publish_time >= ?`
	args := []any{from.Unix()}
	if clientID != "" {
		query += ` AND client_id = ?`
		args = append(args, clientID)
	}
	query += ` GROUP BY day ORDER BY day`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, days)
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily counts: %w", err)
	}

	trend := make([]monitor.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, monitor.TrendPoint{Date: day, Count: counts[day]})
	}

	return trend, nil
}

// RiskyTitles returns titles of negative or risky mentions in the window,
// newest first, for opinion cluster extraction.
func (r *MentionRepository) RiskyTitles(clientID string, from time.Time, limit int) ([]string, error) {
	query := `
		SELECT title FROM mentions
		WHERE publish_time >= ? AND (risk_level >= 2 OR sentiment_score < -0.1)`
	args := []any{from.Unix()}
	if clientID != "" {
		query += ` AND client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY publish_time DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risky titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating titles: %w", err)
	}

	return titles, nil
}

// Library returns one page of the global content library with filtering by
// text, source, clean status and time range.
func (r *MentionRepository) Library(filter monitor.LibraryFilter) (monitor.LibraryPage, error) {
	page := monitor.LibraryPage{Items: []monitor.Mention{}, Page: filter.Page}

	where := []string{"1=1"}
	var args []any

	if filter.SearchText != "" {
		where = append(where, "(title LIKE ? OR content_text LIKE ?)")
		pattern := "%" + filter.SearchText + "%"
		args = append(args, pattern, pattern)
	}
	if len(filter.Sources) > 0 {
		where = append(where, "source IN ("+placeholders(len(filter.Sources))+")")
		for _, s := range filter.Sources {
			args = append(args, s)
		}
	}
	if len(filter.CleanStatus) > 0 {
		where = append(where, "clean_status IN ("+placeholders(len(filter.CleanStatus))+")")
		for _, s := range filter.CleanStatus {
			args = append(args, s)
		}
	}
	if cutoff, ok := timeRangeCutoff(filter.TimeRange); ok {
		where = append(where, "publish_time >= ?")
		args = append(args, cutoff.Unix())
	}

	whereClause := strings.Join(where, " AND ")

	if err := r.db.QueryRow(`SELECT COUNT(*) FROM mentions WHERE `+whereClause, args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("failed to count library items: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	pageNum := filter.Page
	if pageNum <= 0 {
		pageNum = 1
		page.Page = 1
	}

	query := `SELECT ` + mentionColumns + ` FROM mentions WHERE ` + whereClause +
		` ORDER BY publish_time DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (pageNum-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return page, fmt.Errorf("failed to query library items: %w", err)
	}
	defer rows.Close()

	items, err := collectMentions(rows)
	if err != nil {
		return page, err
	}
	page.Items = items

	return page, nil
}

// SetCleanStatus updates the clean status of the given mentions and returns
// how many rows changed. Discarding never hard-deletes.
func (r *MentionRepository) SetCleanStatus(ids []int64, status string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, status)
	for _, id := range ids {
		args = append(args, id)
	}

	result, err := r.db.Exec(`UPDATE mentions SET clean_status = ? WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update clean status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(affected), nil
}

// Associate attributes a global-pool mention to a client. The per-client
// (client_id, url) index rejects a second attribution of the same url.
func (r *MentionRepository) Associate(id int64, clientID string) error {
	result, err := r.db.Exec(`UPDATE mentions SET client_id = ? WHERE id = ?`, clientID, id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("mention %d already attributed for client %s: %w", id, clientID, monitor.ErrConflict)
		}
		return fmt.Errorf("failed to associate mention: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mention %d not found", id)
	}

	return nil
}

// Correct applies an editorial override of sentiment and/or risk level and
// marks the mention cleaned.
func (r *MentionRepository) Correct(id int64, sentiment *float64, riskLevel *int) error {
	sets := []string{"clean_status = ?"}
	args := []any{monitor.CleanStatusCleaned}

	if sentiment != nil {
		sets = append(sets, "sentiment_score = ?")
		args = append(args, *sentiment)
	}
	if riskLevel != nil {
		sets = append(sets, "risk_level = ?")
		args = append(args, *riskLevel)
	}
	args = append(args, id)

	result, err := r.db.Exec(`UPDATE mentions SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to correct mention: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mention %d not found", id)
	}

	return nil
}

func (r *MentionRepository) GetMentionCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM mentions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get mention count: %w", err)
	}
	return count, nil
}

func scanMention(row *sql.Row) (*monitor.Mention, error) {
	m, err := scanMentionRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanMentionRow(s rowScanner) (*monitor.Mention, error) {
	var m monitor.Mention
	var publishTime, createdAt int64
	var isDuplicate int

	err := s.Scan(&m.ID, &m.ClientID, &m.Source, &m.Title, &m.ContentText, &m.URL,
		&publishTime, &m.SentimentScore, &m.RiskLevel, &m.MatchDetail,
		&m.CleanStatus, &m.ContentHash, &isDuplicate, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan mention row: %w", err)
	}

	m.PublishTime = time.Unix(publishTime, 0).UTC()
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	m.IsDuplicate = isDuplicate != 0

	return &m, nil
}

func collectMentions(rows *sql.Rows) ([]monitor.Mention, error) {
	var mentions []monitor.Mention
	for rows.Next() {
		m, err := scanMentionRow(rows)
		if err != nil {
			return nil, err
		}
		mentions = append(mentions, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mention rows: %w", err)
	}
	return mentions, nil
}

func timeRangeCutoff(timeRange string) (time.Time, bool) {
	now := time.Now().UTC()
	switch timeRange {
	case "24h":
		return now.Add(-24 * time.Hour), true
	case "48h":
		return now.Add(-48 * time.Hour), true
	case "7d":
		return now.Add(-7 * 24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
