package provider

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dphans/mediadex/internal/shared"
)

// Collection names accepted by [SQLite.Query].
const (
	CollectionAudio         = "audio"
	CollectionPlaylists     = "playlists"
	CollectionPlaylistAudio = "playlist_audio"
)

// collection describes one queryable collection of the index.
type collection struct {
	// from is the FROM clause target, a table name or a parenthesized
	// subquery for joined views.
	from string
	// columns is the projected column list.
	columns string
	// nativeOrder applies when the caller passes no sort expression,
	// standing in for the source's default row order.
	nativeOrder string
}

// collections registers the queryable collections. Column names listed
// here are the provider's public schema; callers resolve offsets against
// them by name.
var collections = map[string]collection{
	CollectionAudio: {
		from:    "audio",
		columns: "id, title, artist, album, composer, year, track, duration, size, path, created_at, updated_at, is_music",
	},
	CollectionPlaylists: {
		from:        "playlists",
		columns:     "id, name, created_at, updated_at",
		nativeOrder: "id ASC",
	},
	CollectionPlaylistAudio: {
		from: `(SELECT
			a.id AS audio_id,
			a.title AS audio_title,
			a.artist AS audio_artist,
			a.album AS audio_album,
			a.composer AS audio_composer,
			a.year AS audio_year,
			a.track AS audio_track,
			a.duration AS audio_duration,
			a.size AS audio_size,
			a.path AS audio_path,
			a.created_at AS audio_created_at,
			a.updated_at AS audio_updated_at,
			a.is_music AS is_music,
			e.playlist_id AS playlist_id,
			e.play_order AS play_order
		FROM playlist_entries e JOIN audio a ON a.id = e.audio_id)`,
		columns:     "*",
		nativeOrder: "play_order ASC",
	},
}

// SQLite implements [Source] over a SQLite media index database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an open index database in a [Source].
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Query implements [Source].
func (s *SQLite) Query(name, filter string, args []any, sort string) (Cursor, error) {
	col, ok := collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownCollection, name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", col.columns, col.from)
	if filter != "" {
		query += " WHERE " + filter
	}
	if sort == "" {
		sort = col.nativeOrder
	}
	if sort != "" {
		query += " ORDER BY " + sort
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}

	names, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read %s columns: %w", name, err)
	}

	return &rowCursor{rows: rows, columns: names, cells: make([]any, len(names))}, nil
}

// rowCursor adapts [sql.Rows] to the positional, null-safe [Cursor]
// contract.
type rowCursor struct {
	rows    *sql.Rows
	columns []string
	cells   []any
	scanErr error
}

// Next advances the row. A row that fails to scan ends iteration; the
// failure surfaces through Close.
func (c *rowCursor) Next() bool {
	if !c.rows.Next() {
		return false
	}

	ptrs := make([]any, len(c.cells))
	for i := range c.cells {
		c.cells[i] = nil
		ptrs[i] = &c.cells[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		c.scanErr = err
		return false
	}
	return true
}

func (c *rowCursor) ColumnIndex(name string) int {
	for i, col := range c.columns {
		if col == name {
			return i
		}
	}
	return -1
}

func (c *rowCursor) Text(i int) string {
	if i < 0 || i >= len(c.cells) {
		return ""
	}
	switch v := c.cells[i].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (c *rowCursor) Int(i int) int64 {
	if i < 0 || i >= len(c.cells) {
		return 0
	}
	switch v := c.cells[i].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (c *rowCursor) Close() error {
	if err := c.rows.Close(); err != nil {
		return err
	}
	if c.scanErr != nil {
		return c.scanErr
	}
	return c.rows.Err()
}
