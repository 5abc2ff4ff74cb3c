// Package cache is the explicit parsed-snapshot cache keyed by source
// content identity. Decoding a snapshot always yields a fresh copy, so
// sessions built from the cache can never observe each other's
// mutations.
package cache

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"strings"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
)

const (
	kindRegistry = "registry"
	kindWorkbook = "workbook"
)

// Cache stores gob-encoded parsed source documents in SQLite, keyed by
// (source identity, kind). Invalidation is by identity: a changed
// source hashes differently and simply misses.
type Cache struct {
	db *sql.DB
}

func New(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// PutRegistry stores the parsed registry table under the source's
// content identity, replacing any previous snapshot for that identity.
func (c *Cache) PutRegistry(identity string, table models.Table) error {
	return c.put(identity, kindRegistry, table)
}

// GetRegistry returns a fresh copy of the cached registry table, or
// false on a miss.
func (c *Cache) GetRegistry(identity string) (models.Table, bool, error) {
	var table models.Table
	ok, err := c.get(identity, kindRegistry, &table)
	return table, ok, err
}

// PutWorkbook stores the parsed time-series workbook under the
// source's content identity.
func (c *Cache) PutWorkbook(identity string, wb models.Workbook) error {
	return c.put(identity, kindWorkbook, wb)
}

// GetWorkbook returns a fresh copy of the cached workbook, or false on
// a miss.
func (c *Cache) GetWorkbook(identity string) (models.Workbook, bool, error) {
	var wb models.Workbook
	ok, err := c.get(identity, kindWorkbook, &wb)
	return wb, ok, err
}

func (c *Cache) put(identity, kind string, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	_, err := c.db.Exec(`
		INSERT INTO snapshots (source_identity, kind, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(source_identity, kind) DO UPDATE SET
			payload = excluded.payload,
			created_at = CURRENT_TIMESTAMP
	`, identity, kind, buf.Bytes())
	return err
}

func (c *Cache) get(identity, kind string, v interface{}) (bool, error) {
	var payload []byte
	err := c.db.QueryRow(
		`SELECT payload FROM snapshots WHERE source_identity = ? AND kind = ?`,
		identity, kind,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(v); err != nil {
		return false, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return true, nil
}

// Invalidate drops every snapshot stored under an identity.
func (c *Cache) Invalidate(identity string) error {
	_, err := c.db.Exec(`DELETE FROM snapshots WHERE source_identity = ?`, identity)
	return err
}

// PruneExcept deletes all snapshots whose identity is not in keep.
// Called after a reload so stale snapshots of replaced sources do not
// accumulate.
func (c *Cache) PruneExcept(keep []string) error {
	if len(keep) == 0 {
		_, err := c.db.Exec(`DELETE FROM snapshots`)
		return err
	}
	placeholders := strings.Repeat("?,", len(keep))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(keep))
	for i, id := range keep {
		args[i] = id
	}
	_, err := c.db.Exec(
		`DELETE FROM snapshots WHERE source_identity NOT IN (`+placeholders+`)`, args...)
	return err
}
