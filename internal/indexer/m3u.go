package indexer

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dphans/mediadex/internal/shared"
)

// importPlaylists rebuilds playlist rows from the discovered .m3u/.m3u8
// files. A file that fails to import is logged and skipped; the sweep
// carries on.
func (ix *Indexer) importPlaylists(files []string, logger *log.Logger) int {
	imported := 0
	for _, path := range files {
		if err := ix.importPlaylist(path, logger); err != nil {
			logger.Warn("failed to import playlist", "path", path, "error", err)
			continue
		}
		imported++
	}
	return imported
}

// importPlaylist upserts one playlist keyed on its file path and rebuilds
// its entries. Entries that resolve to no indexed track are skipped, so
// playlists should be imported after the audio pass.
func (ix *Indexer) importPlaylist(path string, logger *log.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read playlist: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat playlist: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	entries := parseM3U(string(data))

	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin playlist import: %w", err)
	}
	defer tx.Rollback()

	// Upsert keyed on path keeps the playlist id stable across sweeps.
	if _, err := tx.Exec(`INSERT INTO playlists (name, path, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at`,
		name, path, shared.NowMillis(), shared.MillisFromTime(info.ModTime()),
	); err != nil {
		return fmt.Errorf("failed to upsert playlist: %w", err)
	}

	var playlistID int64
	if err := tx.QueryRow("SELECT id FROM playlists WHERE path = ?", path).Scan(&playlistID); err != nil {
		return fmt.Errorf("failed to resolve playlist id: %w", err)
	}

	// The file is the source of truth for membership, so rebuild instead
	// of merging.
	if _, err := tx.Exec("DELETE FROM playlist_entries WHERE playlist_id = ?", playlistID); err != nil {
		return fmt.Errorf("failed to clear playlist entries: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO playlist_entries (playlist_id, audio_id, play_order) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	base := filepath.Dir(path)
	order := 1
	for _, entry := range entries {
		target := entry
		if !filepath.IsAbs(target) {
			target = filepath.Join(base, target)
		}
		target = filepath.Clean(target)

		var audioID int64
		err := tx.QueryRow("SELECT id FROM audio WHERE path = ?", target).Scan(&audioID)
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug("playlist entry not in index", "playlist", name, "entry", entry)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to resolve playlist entry: %w", err)
		}

		if _, err := stmt.Exec(playlistID, audioID, order); err != nil {
			return fmt.Errorf("failed to insert playlist entry: %w", err)
		}
		order++
	}

	return tx.Commit()
}

// parseM3U returns the entry paths of a basic or extended M3U document.
// Directive and comment lines start with #; backslash separators are
// normalized for playlists written on Windows.
func parseM3U(content string) []string {
	var entries []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, filepath.FromSlash(strings.ReplaceAll(line, "\\", "/")))
	}
	return entries
}
