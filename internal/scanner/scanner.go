package scanner

import (
	"github.com/charmbracelet/log"

	"github.com/dphans/mediadex/internal/models"
	"github.com/dphans/mediadex/internal/provider"
)

// playableFilter selects rows flagged as music in both query contexts.
const playableFilter = "is_music != 0"

// songSort is the output order of [Scanner.Songs]: title ascending with
// ties broken by artist ascending.
const songSort = "title ASC, artist ASC"

// Scanner materializes media records from a tabular [provider.Source].
//
// Scans are synchronous and total: a failed or missing result set degrades
// to an empty slice and a log line, never an error. A Scanner holds no
// state beyond its source handle; concurrent use is as safe as the source
// itself.
type Scanner struct {
	source provider.Source
	logger *log.Logger
}

// New creates a Scanner reading from source. A nil logger falls back to
// the package default.
func New(source provider.Source, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{source: source, logger: logger}
}

// Songs scans the global audio collection for playable tracks, ordered by
// title then artist. The result is never nil.
func (s *Scanner) Songs() []*models.Song {
	cur, err := s.source.Query(provider.CollectionAudio, playableFilter, nil, songSort)
	if err != nil || cur == nil {
		s.logNoResultSet(provider.CollectionAudio, err)
		return []*models.Song{}
	}
	defer s.release(provider.CollectionAudio, cur)

	return s.mapSongs(cur, false)
}

// SongsFromPlaylist scans the membership view for one playlist's playable
// tracks in the source's native order. An id matching no playlist yields
// an empty slice.
func (s *Scanner) SongsFromPlaylist(playlistID int64) []*models.Song {
	cur, err := s.source.Query(
		provider.CollectionPlaylistAudio,
		"playlist_id = ? AND "+playableFilter,
		[]any{playlistID},
		"",
	)
	if err != nil || cur == nil {
		s.logNoResultSet(provider.CollectionPlaylistAudio, err)
		return []*models.Song{}
	}
	defer s.release(provider.CollectionPlaylistAudio, cur)

	return s.mapSongs(cur, true)
}

// Playlists scans the playlist collection. Each playlist's song list is
// resolved through a secondary membership query before the playlist is
// appended, so callers always see fully populated records.
func (s *Scanner) Playlists() []*models.Playlist {
	cur, err := s.source.Query(provider.CollectionPlaylists, "", nil, "")
	if err != nil || cur == nil {
		s.logNoResultSet(provider.CollectionPlaylists, err)
		return []*models.Playlist{}
	}
	defer s.release(provider.CollectionPlaylists, cur)

	return s.mapPlaylists(cur)
}

// Playlist scans for the single playlist matching id, songs populated the
// same way [Scanner.Playlists] populates them, without materializing the
// rest of the collection. Returns nil when no playlist matches.
func (s *Scanner) Playlist(id int64) *models.Playlist {
	cur, err := s.source.Query(provider.CollectionPlaylists, "id = ?", []any{id}, "")
	if err != nil || cur == nil {
		s.logNoResultSet(provider.CollectionPlaylists, err)
		return nil
	}
	defer s.release(provider.CollectionPlaylists, cur)

	playlists := s.mapPlaylists(cur)
	if len(playlists) == 0 {
		return nil
	}
	return playlists[0]
}

// mapPlaylists walks every playlist row of cur, resolving songs per
// playlist before the record is appended.
func (s *Scanner) mapPlaylists(cur provider.Cursor) []*models.Playlist {
	idIdx := cur.ColumnIndex("id")
	nameIdx := cur.ColumnIndex("name")
	createdIdx := cur.ColumnIndex("created_at")
	updatedIdx := cur.ColumnIndex("updated_at")

	playlists := []*models.Playlist{}
	for cur.Next() {
		playlist := models.NewPlaylist()
		playlist.ID = cur.Int(idIdx)
		playlist.Name = cur.Text(nameIdx)
		playlist.CreatedAt = cur.Int(createdIdx)
		playlist.UpdatedAt = cur.Int(updatedIdx)
		playlist.Songs = s.SongsFromPlaylist(playlist.ID)
		playlists = append(playlists, playlist)
	}
	return playlists
}

// mapSongs walks every row of cur into populated songs. membership picks
// the column scheme; NULL and absent cells read as type defaults.
func (s *Scanner) mapSongs(cur provider.Cursor, membership bool) []*models.Song {
	layout := resolveSongLayout(cur, membership)

	songs := []*models.Song{}
	for cur.Next() {
		song := models.NewSong()
		song.ID = cur.Int(layout[fieldID])
		song.Title = cur.Text(layout[fieldTitle])
		song.Artist = cur.Text(layout[fieldArtist])
		song.Album = cur.Text(layout[fieldAlbum])
		song.Composer = optionalText(cur, layout[fieldComposer])
		song.Year = optionalText(cur, layout[fieldYear])
		song.Track = int(cur.Int(layout[fieldTrack]))
		song.Duration = cur.Int(layout[fieldDuration])
		song.Size = cur.Int(layout[fieldSize])
		song.Path = optionalText(cur, layout[fieldPath])
		song.CreatedAt = cur.Int(layout[fieldCreatedAt])
		song.UpdatedAt = cur.Int(layout[fieldUpdatedAt])
		songs = append(songs, song)
	}
	return songs
}

// optionalText reads a nullable text field, nil when null, empty or
// absent.
func optionalText(cur provider.Cursor, idx int) *string {
	if idx < 0 {
		return nil
	}
	v := cur.Text(idx)
	if v == "" {
		return nil
	}
	return &v
}

// release closes cur. Every acquired cursor passes through here exactly
// once, whatever the exit path.
func (s *Scanner) release(collection string, cur provider.Cursor) {
	if err := cur.Close(); err != nil {
		s.logger.Warn("failed to release result set", "collection", collection, "error", err)
	}
}

// logNoResultSet records a query that produced nothing to iterate. Per the
// scan contract this degrades to an empty result instead of an error.
func (s *Scanner) logNoResultSet(collection string, err error) {
	if err != nil {
		s.logger.Debug("query returned no result set", "collection", collection, "error", err)
		return
	}
	s.logger.Debug("query returned no result set", "collection", collection)
}
