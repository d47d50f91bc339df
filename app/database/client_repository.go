package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2008zhum-boop/radar-ai/app/monitor"
)

// ClientRepository handles database operations for client configurations.
// Keyword lists and advanced rules are stored as JSON columns but always
// travel as typed structs; they are validated by the registry on write.
type ClientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, name, industry, status, brand_keywords, exclude_keywords, advanced_rules, created_at, updated_at`

func (r *ClientRepository) Insert(c monitor.ClientConfig) error {
	brand, exclude, rules, err := marshalLogic(c)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO client_configs (id, name, industry, status, brand_keywords, exclude_keywords, advanced_rules, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Industry, c.Status, brand, exclude, rules, c.CreatedAt.Unix(), c.UpdatedAt.Unix())

	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	return nil
}

func (r *ClientRepository) Update(c monitor.ClientConfig) error {
	brand, exclude, rules, err := marshalLogic(c)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(`
		UPDATE client_configs
		SET name = ?, industry = ?, status = ?, brand_keywords = ?, exclude_keywords = ?, advanced_rules = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Industry, c.Status, brand, exclude, rules, c.UpdatedAt.Unix(), c.ID)

	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client %q: %w", c.ID, monitor.ErrClientNotFound)
	}

	return nil
}

// Delete removes a client and all of its mentions in one transaction, so no
// orphaned rows survive a crash between the two deletes.
func (r *ClientRepository) Delete(clientID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM mentions WHERE client_id = ?`, clientID); err != nil {
		return fmt.Errorf("failed to delete client mentions: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM client_configs WHERE id = ?`, clientID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client %q: %w", clientID, monitor.ErrClientNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

func (r *ClientRepository) GetByID(clientID string) (*monitor.ClientConfig, error) {
	row := r.db.QueryRow(`SELECT `+clientColumns+` FROM client_configs WHERE id = ?`, clientID)
	return scanClient(row)
}

func (r *ClientRepository) GetByName(name string) (*monitor.ClientConfig, error) {
	row := r.db.QueryRow(`SELECT `+clientColumns+` FROM client_configs WHERE name = ?`, name)
	return scanClient(row)
}

func (r *ClientRepository) List() ([]monitor.ClientConfig, error) {
	return r.list(`SELECT ` + clientColumns + ` FROM client_configs ORDER BY created_at DESC`)
}

func (r *ClientRepository) ListActive() ([]monitor.ClientConfig, error) {
	return r.list(`SELECT ` + clientColumns + ` FROM client_configs WHERE status = 1 ORDER BY created_at DESC`)
}

func (r *ClientRepository) list(query string) ([]monitor.ClientConfig, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []monitor.ClientConfig
	for rows.Next() {
		client, err := scanClientRow(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}

	return clients, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row *sql.Row) (*monitor.ClientConfig, error) {
	client, err := scanClientRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func scanClientRow(s rowScanner) (*monitor.ClientConfig, error) {
	var c monitor.ClientConfig
	var brand, exclude, rules string
	var createdAt, updatedAt int64

	err := s.Scan(&c.ID, &c.Name, &c.Industry, &c.Status, &brand, &exclude, &rules, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client row: %w", err)
	}

	if err := json.Unmarshal([]byte(brand), &c.BrandKeywords); err != nil {
		return nil, fmt.Errorf("failed to decode brand keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(exclude), &c.ExcludeKeywords); err != nil {
		return nil, fmt.Errorf("failed to decode exclude keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(rules), &c.AdvancedRules); err != nil {
		return nil, fmt.Errorf("failed to decode advanced rules: %w", err)
	}

	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	c.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &c, nil
}

func marshalLogic(c monitor.ClientConfig) (string, string, string, error) {
	brand, err := json.Marshal(emptyIfNil(c.BrandKeywords))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode brand keywords: %w", err)
	}
	exclude, err := json.Marshal(emptyIfNil(c.ExcludeKeywords))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode exclude keywords: %w", err)
	}
	rules := c.AdvancedRules
	if rules == nil {
		rules = []monitor.AdvancedRule{}
	}
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode advanced rules: %w", err)
	}
	return string(brand), string(exclude), string(rulesJSON), nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
