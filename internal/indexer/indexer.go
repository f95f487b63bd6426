// package indexer populates the media index database from a library tree
package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dphans/mediadex/internal/shared"
)

// DefaultExtensions are the audio extensions indexed when the
// configuration names none.
var DefaultExtensions = []string{".mp3", ".m4a", ".flac", ".ogg", ".oga", ".wav"}

const defaultBatchSize = 500

// Options tunes the sweep pipeline.
type Options struct {
	// Workers is the number of parallel tag parsers, 0 for one per CPU.
	Workers int
	// BatchSize is the number of rows per write transaction, 0 for 500.
	BatchSize int
	// RateLimit caps file parses per second, 0 for unlimited.
	RateLimit float64
	// Extensions overrides [DefaultExtensions].
	Extensions []string
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	return o
}

// Result summarizes one finished sweep.
type Result struct {
	SweepID          string        `json:"sweep_id"`
	FilesSeen        int           `json:"files_seen"`
	SongsIndexed     int           `json:"songs_indexed"`
	PlaylistsIndexed int           `json:"playlists_indexed"`
	Elapsed          time.Duration `json:"elapsed"`
}

// Indexer sweeps a library directory into the index database: audio files
// are tag-parsed into the audio table and .m3u/.m3u8 files are rebuilt as
// playlists.
type Indexer struct {
	db     *sql.DB
	logger *log.Logger
	opts   Options
	exts   map[string]bool

	mu sync.Mutex // one sweep at a time
}

// New creates an Indexer writing to db. A nil logger falls back to the
// package default.
func New(db *sql.DB, logger *log.Logger, opts Options) *Indexer {
	if logger == nil {
		logger = log.Default()
	}
	opts = opts.withDefaults()

	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = true
	}

	return &Indexer{db: db, logger: logger, opts: opts, exts: exts}
}

// Sweep walks root once, indexing every matching audio file and playlist.
// Each sweep is recorded in the sweeps table; a row with no finished_at
// marks a sweep that did not complete.
func (ix *Indexer) Sweep(ctx context.Context, root string) (*Result, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root %s is not a directory", root)
	}

	sweepID := shared.GenerateID()
	logger := shared.WithLogger(ix.logger, "sweep", sweepID)
	started := time.Now()

	if _, err := ix.db.Exec(
		"INSERT INTO sweeps (id, started_at) VALUES (?, ?)",
		sweepID, shared.MillisFromTime(started),
	); err != nil {
		return nil, fmt.Errorf("failed to record sweep: %w", err)
	}

	audioFiles, playlistFiles, err := ix.discover(ctx, root)
	if err != nil {
		return nil, err
	}
	logger.Info("library walked", "audio_files", len(audioFiles), "playlist_files", len(playlistFiles))

	indexed, err := ix.indexAudio(ctx, audioFiles, logger)
	if err != nil {
		return nil, err
	}

	imported := ix.importPlaylists(playlistFiles, logger)

	result := &Result{
		SweepID:          sweepID,
		FilesSeen:        len(audioFiles) + len(playlistFiles),
		SongsIndexed:     indexed,
		PlaylistsIndexed: imported,
		Elapsed:          time.Since(started),
	}

	if _, err := ix.db.Exec(
		"UPDATE sweeps SET finished_at = ?, files_seen = ?, songs_indexed = ?, playlists_indexed = ? WHERE id = ?",
		shared.NowMillis(), result.FilesSeen, result.SongsIndexed, result.PlaylistsIndexed, sweepID,
	); err != nil {
		return nil, fmt.Errorf("failed to finish sweep record: %w", err)
	}

	logger.Info("sweep finished",
		"songs", result.SongsIndexed,
		"playlists", result.PlaylistsIndexed,
		"elapsed", result.Elapsed)
	return result, nil
}

// discover collects the audio and playlist files under root. Unreadable
// subtrees are logged and skipped; hidden directories are not descended.
func (ix *Indexer) discover(ctx context.Context, root string) (audio, playlists []string, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			ix.logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return fs.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case ext == ".m3u" || ext == ".m3u8":
			playlists = append(playlists, path)
		case ix.exts[ext]:
			audio = append(audio, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk library: %w", err)
	}
	return audio, playlists, nil
}

// indexAudio fans file parsing out to a worker pool and streams the rows
// into batched upserts.
func (ix *Indexer) indexAudio(ctx context.Context, files []string, logger *log.Logger) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}

	var limiter *rate.Limiter
	if ix.opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(ix.opts.RateLimit), 1)
	}

	jobs := make(chan string)
	rows := make(chan *audioRow, ix.opts.BatchSize)

	var wg sync.WaitGroup
	for i := 0; i < ix.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}
				if row := ix.parseAudioFile(path, logger); row != nil {
					rows <- row
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(rows)
	}()

	return ix.writeAudioRows(rows, logger)
}

// audioRow is one parsed file on its way into the audio table.
type audioRow struct {
	title     string
	artist    string
	album     string
	composer  string
	year      string
	track     int
	duration  int64
	size      int64
	path      string
	createdAt int64
	updatedAt int64
}

func (ix *Indexer) writeAudioRows(rows <-chan *audioRow, logger *log.Logger) (int, error) {
	batch := make([]*audioRow, 0, ix.opts.BatchSize)
	written := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ix.upsertBatch(batch); err != nil {
			return err
		}
		written += len(batch)
		logger.Debug("wrote batch", "rows", len(batch), "total", written)
		batch = batch[:0]
		return nil
	}

	for row := range rows {
		batch = append(batch, row)
		if len(batch) >= ix.opts.BatchSize {
			if err := flush(); err != nil {
				// Unblock the workers still sending rows.
				for range rows {
				}
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}

func (ix *Indexer) upsertBatch(batch []*audioRow) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	// Upsert keyed on path so re-sweeps keep ids stable for playlist
	// entries. created_at survives the update.
	stmt, err := tx.Prepare(`INSERT INTO audio
		(title, artist, album, composer, year, track, duration, size, path, created_at, updated_at, is_music)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			composer = excluded.composer,
			year = excluded.year,
			track = excluded.track,
			duration = excluded.duration,
			size = excluded.size,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range batch {
		if _, err := stmt.Exec(
			row.title, row.artist, row.album,
			nullable(row.composer), nullable(row.year),
			row.track, row.duration, row.size, row.path,
			row.createdAt, row.updatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", row.path, err)
		}
	}

	return tx.Commit()
}

// nullable maps the empty string to NULL so optional columns stay null
// instead of empty.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Prune removes index rows whose files no longer exist on disk, along
// with any playlist entries referencing them.
func (ix *Indexer) Prune(ctx context.Context) (int, error) {
	staleAudio, err := ix.stalePaths(ctx, "audio")
	if err != nil {
		return 0, err
	}
	stalePlaylists, err := ix.stalePaths(ctx, "playlists")
	if err != nil {
		return 0, err
	}

	for _, id := range staleAudio {
		if _, err := ix.db.Exec("DELETE FROM playlist_entries WHERE audio_id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to prune playlist entries: %w", err)
		}
		if _, err := ix.db.Exec("DELETE FROM audio WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to prune audio row: %w", err)
		}
	}
	for _, id := range stalePlaylists {
		if _, err := ix.db.Exec("DELETE FROM playlist_entries WHERE playlist_id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to prune playlist entries: %w", err)
		}
		if _, err := ix.db.Exec("DELETE FROM playlists WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to prune playlist row: %w", err)
		}
	}

	pruned := len(staleAudio) + len(stalePlaylists)
	if pruned > 0 {
		ix.logger.Info("pruned stale rows", "audio", len(staleAudio), "playlists", len(stalePlaylists))
	}
	return pruned, nil
}

// stalePaths returns the ids of table rows whose path no longer exists.
func (ix *Indexer) stalePaths(ctx context.Context, table string) ([]int64, error) {
	rows, err := ix.db.Query("SELECT id, path FROM " + table + " WHERE path IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s paths: %w", table, err)
	}
	defer rows.Close()

	var stale []int64
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("failed to scan %s path: %w", table, err)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			stale = append(stale, id)
		}
	}
	return stale, rows.Err()
}
