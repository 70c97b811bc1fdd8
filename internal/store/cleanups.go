package store

import (
	"database/sql"
	"time"
)

// InsertCleanup records the outcome of cleaning one project.
func (db *DB) InsertCleanup(c *Cleanup) error {
	cleanedAt := c.CleanedAt
	if cleanedAt.IsZero() {
		cleanedAt = time.Now()
	}
	var scanID sql.NullInt64
	if c.ScanID > 0 {
		scanID = sql.NullInt64{Int64: c.ScanID, Valid: true}
	}
	result, err := db.conn.Exec(
		`INSERT INTO cleanups (scan_id, cleaned_at, project_path, ecosystem, freed_bytes, failed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		scanID, cleanedAt.UTC().Format(time.RFC3339), c.ProjectPath, c.Ecosystem, c.FreedBytes, c.Failed,
	)
	if err != nil {
		return err
	}
	c.ID, err = result.LastInsertId()
	return err
}

// ListCleanups returns up to limit cleanups, newest first. A limit <= 0 returns all.
func (db *DB) ListCleanups(limit int) ([]Cleanup, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(
		`SELECT id, scan_id, cleaned_at, project_path, ecosystem, freed_bytes, failed
		FROM cleanups ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Cleanup
	for rows.Next() {
		var c Cleanup
		var scanID sql.NullInt64
		var cleanedAt string
		if err := rows.Scan(&c.ID, &scanID, &cleanedAt, &c.ProjectPath, &c.Ecosystem, &c.FreedBytes, &c.Failed); err != nil {
			return nil, err
		}
		c.ScanID = scanID.Int64
		c.CleanedAt, _ = time.Parse(time.RFC3339, cleanedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetTotals sums the ledger.
func (db *DB) GetTotals() (Totals, error) {
	var t Totals
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM scans").Scan(&t.Scans); err != nil {
		return t, err
	}
	err := db.conn.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(freed_bytes), 0) FROM cleanups").Scan(&t.Cleanups, &t.FreedBytes)
	return t, err
}
