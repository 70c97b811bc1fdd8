// Package store keeps a SQLite ledger of scans and the space reclaimed by cleanups.
package store

import "time"

// Scan records one completed scan.
type Scan struct {
	ID               int64     `json:"id"`
	TakenAt          time.Time `json:"taken_at"`
	Root             string    `json:"root"`
	ProjectCount     int       `json:"project_count"`
	ReclaimableBytes int64     `json:"reclaimable_bytes"`
	Version          string    `json:"version"`
}

// Cleanup records the artifacts removed from one project.
type Cleanup struct {
	ID          int64     `json:"id"`
	ScanID      int64     `json:"scan_id,omitempty"`
	CleanedAt   time.Time `json:"cleaned_at"`
	ProjectPath string    `json:"project_path"`
	Ecosystem   string    `json:"ecosystem"`
	FreedBytes  int64     `json:"freed_bytes"`
	Failed      int       `json:"failed"`
}

// Totals aggregates the cleanup ledger.
type Totals struct {
	Scans      int   `json:"scans"`
	Cleanups   int   `json:"cleanups"`
	FreedBytes int64 `json:"freed_bytes"`
}
