package indexer

import (
	"database/sql"
	"errors"
	"fmt"
)

// Status summarizes the index contents and the most recent sweep.
type Status struct {
	Songs     int64      `json:"songs"`
	Playlists int64      `json:"playlists"`
	LastSweep *SweepInfo `json:"last_sweep,omitempty"`
}

// SweepInfo mirrors one row of sweep bookkeeping. FinishedAt is zero for
// a sweep that never completed.
type SweepInfo struct {
	ID               string `json:"id"`
	StartedAt        int64  `json:"started_at"`
	FinishedAt       int64  `json:"finished_at,omitempty"`
	FilesSeen        int64  `json:"files_seen"`
	SongsIndexed     int64  `json:"songs_indexed"`
	PlaylistsIndexed int64  `json:"playlists_indexed"`
}

// ReadStatus reports row counts and the latest sweep, if any.
func ReadStatus(db *sql.DB) (*Status, error) {
	status := &Status{}

	if err := db.QueryRow("SELECT COUNT(*) FROM audio WHERE is_music != 0").Scan(&status.Songs); err != nil {
		return nil, fmt.Errorf("failed to count songs: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM playlists").Scan(&status.Playlists); err != nil {
		return nil, fmt.Errorf("failed to count playlists: %w", err)
	}

	var info SweepInfo
	var finished sql.NullInt64
	err := db.QueryRow(`SELECT id, started_at, finished_at, files_seen, songs_indexed, playlists_indexed
		FROM sweeps ORDER BY started_at DESC LIMIT 1`).Scan(
		&info.ID, &info.StartedAt, &finished,
		&info.FilesSeen, &info.SongsIndexed, &info.PlaylistsIndexed)
	if errors.Is(err, sql.ErrNoRows) {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last sweep: %w", err)
	}

	info.FinishedAt = finished.Int64
	status.LastSweep = &info
	return status, nil
}
