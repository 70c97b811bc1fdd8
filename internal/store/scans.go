package store

import (
	"database/sql"
	"time"
)

// CreateScan inserts a scan record and returns its ID.
func (db *DB) CreateScan(s *Scan) (int64, error) {
	takenAt := s.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	result, err := db.conn.Exec(
		`INSERT INTO scans (taken_at, root, project_count, reclaimable_bytes, version)
		VALUES (?, ?, ?, ?, ?)`,
		takenAt.UTC().Format(time.RFC3339), s.Root, s.ProjectCount, s.ReclaimableBytes, s.Version,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = id
	return id, nil
}

// GetScan returns a scan by ID, or nil if it does not exist.
func (db *DB) GetScan(id int64) (*Scan, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, root, project_count, reclaimable_bytes, version FROM scans WHERE id = ?", id)
	return scanScan(row)
}

// GetLatestScan returns the most recent scan, or nil if none exist.
func (db *DB) GetLatestScan() (*Scan, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, root, project_count, reclaimable_bytes, version FROM scans ORDER BY id DESC LIMIT 1")
	return scanScan(row)
}

// ListScans returns up to limit scans, newest first. A limit <= 0 returns all.
func (db *DB) ListScans(limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(
		`SELECT id, taken_at, root, project_count, reclaimable_bytes, version
		FROM scans ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var s Scan
		var takenAt string
		if err := rows.Scan(&s.ID, &takenAt, &s.Root, &s.ProjectCount, &s.ReclaimableBytes, &s.Version); err != nil {
			return nil, err
		}
		s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

func scanScan(row *sql.Row) (*Scan, error) {
	var s Scan
	var takenAt string
	err := row.Scan(&s.ID, &takenAt, &s.Root, &s.ProjectCount, &s.ReclaimableBytes, &s.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}
