package scanner

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dphans/mediadex/internal/provider"
	tu "github.com/dphans/mediadex/internal/testing"
)

var globalColumns = []string{
	"id", "title", "artist", "album", "composer", "year", "track",
	"duration", "size", "path", "created_at", "updated_at", "is_music",
}

var membershipColumns = []string{
	"audio_id", "audio_title", "audio_artist", "audio_album",
	"audio_composer", "audio_year", "audio_track", "audio_duration",
	"audio_size", "audio_path", "audio_created_at", "audio_updated_at",
	"is_music", "playlist_id", "play_order",
}

func discard() *log.Logger {
	return log.New(io.Discard)
}

func respondWith(cur provider.Cursor) func(tu.QueryCall) (provider.Cursor, error) {
	return func(tu.QueryCall) (provider.Cursor, error) { return cur, nil }
}

func TestSongs(t *testing.T) {
	t.Run("maps global columns", func(t *testing.T) {
		cur := tu.NewFakeCursor(globalColumns, [][]any{
			{int64(1), "Baker Street", "Gerry Rafferty", "City to City", "Gerry Rafferty", "1978",
				int64(3), int64(372000), int64(9100000), "/music/baker-street.mp3", int64(1000), int64(2000), int64(1)},
			{int64(2), "Untagged", nil, nil, nil, nil,
				nil, nil, nil, nil, nil, nil, int64(1)},
		})
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionAudio: respondWith(cur),
		}}

		songs := New(source, discard()).Songs()

		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}

		first := songs[0]
		if first.ID != 1 || first.Title != "Baker Street" || first.Artist != "Gerry Rafferty" {
			t.Errorf("unexpected first song: %+v", first)
		}
		if first.Composer == nil || *first.Composer != "Gerry Rafferty" {
			t.Errorf("expected composer, got %v", first.Composer)
		}
		if first.Year == nil || *first.Year != "1978" {
			t.Errorf("expected year, got %v", first.Year)
		}
		if first.Track != 3 || first.Duration != 372000 || first.Size != 9100000 {
			t.Errorf("unexpected numeric fields: %+v", first)
		}
		if first.Path == nil || *first.Path != "/music/baker-street.mp3" {
			t.Errorf("expected path, got %v", first.Path)
		}
		if first.CreatedAt != 1000 || first.UpdatedAt != 2000 {
			t.Errorf("expected source timestamps, got %d/%d", first.CreatedAt, first.UpdatedAt)
		}

		second := songs[1]
		if second.Artist != "" || second.Album != "" {
			t.Errorf("expected empty text defaults, got %+v", second)
		}
		if second.Composer != nil || second.Year != nil || second.Path != nil {
			t.Errorf("expected nil optionals for null cells, got %+v", second)
		}
		if second.Track != 0 || second.Duration != 0 || second.Size != 0 {
			t.Errorf("expected zero numeric defaults, got %+v", second)
		}

		if cur.Closes != 1 {
			t.Errorf("expected the result set to be released once, got %d", cur.Closes)
		}
	})

	t.Run("queries playable rows in title order", func(t *testing.T) {
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionAudio: respondWith(tu.NewFakeCursor(globalColumns, nil)),
		}}

		New(source, discard()).Songs()

		if len(source.Calls) != 1 {
			t.Fatalf("expected one query, got %d", len(source.Calls))
		}
		call := source.Calls[0]
		if call.Filter != "is_music != 0" {
			t.Errorf("unexpected filter %q", call.Filter)
		}
		if call.Sort != "title ASC, artist ASC" {
			t.Errorf("unexpected sort %q", call.Sort)
		}
	})

	t.Run("no result set degrades to empty", func(t *testing.T) {
		source := &tu.FakeSource{}

		songs := New(source, discard()).Songs()

		if songs == nil {
			t.Fatal("expected a non-nil slice")
		}
		if len(songs) != 0 {
			t.Errorf("expected no songs, got %d", len(songs))
		}
	})

	t.Run("query error degrades to empty", func(t *testing.T) {
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionAudio: func(tu.QueryCall) (provider.Cursor, error) {
				return nil, errors.New("index unavailable")
			},
		}}

		songs := New(source, discard()).Songs()

		if songs == nil || len(songs) != 0 {
			t.Errorf("expected an empty slice, got %v", songs)
		}
	})

	t.Run("missing columns read as defaults", func(t *testing.T) {
		// A source missing the optional columns entirely.
		cur := tu.NewFakeCursor(
			[]string{"id", "title", "is_music"},
			[][]any{{int64(9), "Minimal", int64(1)}},
		)
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionAudio: respondWith(cur),
		}}

		songs := New(source, discard()).Songs()

		if len(songs) != 1 {
			t.Fatalf("expected 1 song, got %d", len(songs))
		}
		song := songs[0]
		if song.ID != 9 || song.Title != "Minimal" {
			t.Errorf("expected present columns to map, got %+v", song)
		}
		if song.Artist != "" || song.Composer != nil || song.Track != 0 || song.Duration != 0 {
			t.Errorf("expected defaults for absent columns, got %+v", song)
		}
	})
}

func TestSongsFromPlaylist(t *testing.T) {
	t.Run("maps membership columns", func(t *testing.T) {
		cur := tu.NewFakeCursor(membershipColumns, [][]any{
			{int64(21), "Opener", "Artist A", "Album A", nil, nil, int64(1),
				int64(201000), int64(5000000), "/music/opener.mp3", int64(10), int64(20), int64(1), int64(7), int64(1)},
			{int64(22), "Closer", "Artist B", "Album B", "Composer B", "2001", int64(2),
				int64(202000), int64(6000000), "/music/closer.mp3", int64(30), int64(40), int64(1), int64(7), int64(2)},
		})
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionPlaylistAudio: respondWith(cur),
		}}

		songs := New(source, discard()).SongsFromPlaylist(7)

		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Title != "Opener" || songs[1].Title != "Closer" {
			t.Errorf("expected source row order, got %q then %q", songs[0].Title, songs[1].Title)
		}
		if songs[0].ID != 21 || songs[1].ID != 22 {
			t.Errorf("expected audio ids, got %d/%d", songs[0].ID, songs[1].ID)
		}
		if songs[1].Composer == nil || *songs[1].Composer != "Composer B" {
			t.Errorf("expected composer from membership columns, got %v", songs[1].Composer)
		}
		if cur.Closes != 1 {
			t.Errorf("expected the result set to be released once, got %d", cur.Closes)
		}
	})

	t.Run("binds the playlist id and keeps native order", func(t *testing.T) {
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionPlaylistAudio: respondWith(tu.NewFakeCursor(membershipColumns, nil)),
		}}

		New(source, discard()).SongsFromPlaylist(42)

		call := source.Calls[0]
		if call.Filter != "playlist_id = ? AND is_music != 0" {
			t.Errorf("unexpected filter %q", call.Filter)
		}
		if len(call.Args) != 1 || call.Args[0] != int64(42) {
			t.Errorf("expected the playlist id to be bound, got %v", call.Args)
		}
		if call.Sort != "" {
			t.Errorf("expected the source's native order, got sort %q", call.Sort)
		}
	})

	t.Run("unknown playlist degrades to empty", func(t *testing.T) {
		source := &tu.FakeSource{}

		songs := New(source, discard()).SongsFromPlaylist(404)

		if songs == nil || len(songs) != 0 {
			t.Errorf("expected an empty slice, got %v", songs)
		}
	})
}

func TestPlaylists(t *testing.T) {
	playlistColumns := []string{"id", "name", "created_at", "updated_at"}

	membershipRow := func(audioID int64, title string, playlistID, order int64) []any {
		return []any{audioID, title, "Artist", "Album", nil, nil, int64(1),
			int64(180000), int64(4000000), nil, int64(1), int64(2), int64(1), playlistID, order}
	}

	t.Run("resolves songs per playlist", func(t *testing.T) {
		playlistCur := tu.NewFakeCursor(playlistColumns, [][]any{
			{int64(7), "Road Trip", int64(1000), int64(2000)},
			{int64(8), "Empty", int64(3000), int64(4000)},
		})

		var membershipCurs []*tu.FakeCursor
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionPlaylists: respondWith(playlistCur),
			provider.CollectionPlaylistAudio: func(call tu.QueryCall) (provider.Cursor, error) {
				var rows [][]any
				if call.Args[0] == int64(7) {
					rows = [][]any{
						membershipRow(21, "Opener", 7, 1),
						membershipRow(22, "Closer", 7, 2),
					}
				}
				cur := tu.NewFakeCursor(membershipColumns, rows)
				membershipCurs = append(membershipCurs, cur)
				return cur, nil
			},
		}}

		playlists := New(source, discard()).Playlists()

		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(playlists))
		}

		roadTrip := playlists[0]
		if roadTrip.ID != 7 || roadTrip.Name != "Road Trip" {
			t.Errorf("unexpected playlist: %+v", roadTrip)
		}
		if roadTrip.CreatedAt != 1000 || roadTrip.UpdatedAt != 2000 {
			t.Errorf("expected source timestamps, got %d/%d", roadTrip.CreatedAt, roadTrip.UpdatedAt)
		}
		if len(roadTrip.Songs) != 2 || roadTrip.Songs[0].Title != "Opener" || roadTrip.Songs[1].Title != "Closer" {
			t.Errorf("expected resolved songs in order, got %+v", roadTrip.Songs)
		}

		empty := playlists[1]
		if empty.Songs == nil {
			t.Fatal("expected a non-nil song list for an empty playlist")
		}
		if len(empty.Songs) != 0 {
			t.Errorf("expected no songs, got %d", len(empty.Songs))
		}

		if playlistCur.Closes != 1 {
			t.Errorf("expected the playlist result set to be released once, got %d", playlistCur.Closes)
		}
		if len(membershipCurs) != 2 {
			t.Fatalf("expected one membership query per playlist, got %d", len(membershipCurs))
		}
		for i, cur := range membershipCurs {
			if cur.Closes != 1 {
				t.Errorf("expected membership result set %d to be released once, got %d", i, cur.Closes)
			}
		}
	})

	t.Run("song lists are independent", func(t *testing.T) {
		playlistCur := tu.NewFakeCursor(playlistColumns, [][]any{
			{int64(1), "A", int64(0), int64(0)},
			{int64(2), "B", int64(0), int64(0)},
		})
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionPlaylists: respondWith(playlistCur),
			provider.CollectionPlaylistAudio: func(call tu.QueryCall) (provider.Cursor, error) {
				id := call.Args[0].(int64)
				return tu.NewFakeCursor(membershipColumns, [][]any{
					membershipRow(id*10, "Song", id, 1),
				}), nil
			},
		}}

		playlists := New(source, discard()).Playlists()

		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(playlists))
		}
		if playlists[0].Songs[0].ID == playlists[1].Songs[0].ID {
			t.Error("expected each playlist to materialize its own songs")
		}
		playlists[0].Songs[0].Title = "mutated"
		if playlists[1].Songs[0].Title == "mutated" {
			t.Error("expected song lists not to share entries")
		}
	})

	t.Run("no result set degrades to empty", func(t *testing.T) {
		source := &tu.FakeSource{}

		playlists := New(source, discard()).Playlists()

		if playlists == nil || len(playlists) != 0 {
			t.Errorf("expected an empty slice, got %v", playlists)
		}
	})

	t.Run("membership failure leaves playlist empty", func(t *testing.T) {
		playlistCur := tu.NewFakeCursor(playlistColumns, [][]any{
			{int64(7), "Road Trip", int64(0), int64(0)},
		})
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionPlaylists: respondWith(playlistCur),
			provider.CollectionPlaylistAudio: func(tu.QueryCall) (provider.Cursor, error) {
				return nil, errors.New("membership view unavailable")
			},
		}}

		playlists := New(source, discard()).Playlists()

		if len(playlists) != 1 {
			t.Fatalf("expected the playlist itself to survive, got %d", len(playlists))
		}
		if playlists[0].Songs == nil || len(playlists[0].Songs) != 0 {
			t.Errorf("expected an empty song list, got %v", playlists[0].Songs)
		}
	})

	t.Run("close failure is tolerated", func(t *testing.T) {
		playlistCur := tu.NewFakeCursor(playlistColumns, [][]any{
			{int64(1), "A", int64(0), int64(0)},
		})
		playlistCur.CloseErr = errors.New("already closed")
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionPlaylists:     respondWith(playlistCur),
			provider.CollectionPlaylistAudio: respondWith(tu.NewFakeCursor(membershipColumns, nil)),
		}}

		playlists := New(source, discard()).Playlists()

		if len(playlists) != 1 {
			t.Errorf("expected the scan to complete, got %d playlists", len(playlists))
		}
		if playlistCur.Closes != 1 {
			t.Errorf("expected exactly one release attempt, got %d", playlistCur.Closes)
		}
	})
}

func TestPlaylist(t *testing.T) {
	playlistColumns := []string{"id", "name", "created_at", "updated_at"}

	t.Run("resolves one playlist by id", func(t *testing.T) {
		playlistCur := tu.NewFakeCursor(playlistColumns, [][]any{
			{int64(7), "Road Trip", int64(1000), int64(2000)},
		})
		membershipCur := tu.NewFakeCursor(membershipColumns, [][]any{
			{int64(21), "Opener", "Artist", "Album", nil, nil, int64(1),
				int64(180000), int64(4000000), nil, int64(10), int64(20), int64(1), int64(7), int64(1)},
		})
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionPlaylists:     respondWith(playlistCur),
			provider.CollectionPlaylistAudio: respondWith(membershipCur),
		}}

		playlist := New(source, discard()).Playlist(7)

		if playlist == nil {
			t.Fatal("expected a playlist")
		}
		if playlist.ID != 7 || playlist.Name != "Road Trip" {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
		if len(playlist.Songs) != 1 || playlist.Songs[0].Title != "Opener" {
			t.Errorf("expected resolved songs, got %+v", playlist.Songs)
		}

		call := source.Calls[0]
		if call.Collection != provider.CollectionPlaylists || call.Filter != "id = ?" {
			t.Errorf("unexpected query: %+v", call)
		}
		if len(call.Args) != 1 || call.Args[0] != int64(7) {
			t.Errorf("expected the id to be bound, got %v", call.Args)
		}
		if playlistCur.Closes != 1 || membershipCur.Closes != 1 {
			t.Errorf("expected both result sets released once, got %d/%d",
				playlistCur.Closes, membershipCur.Closes)
		}
	})

	t.Run("unknown id yields nil", func(t *testing.T) {
		source := &tu.FakeSource{Respond: map[string]func(tu.QueryCall) (provider.Cursor, error){
			provider.CollectionPlaylists: respondWith(tu.NewFakeCursor(playlistColumns, nil)),
		}}

		if playlist := New(source, discard()).Playlist(404); playlist != nil {
			t.Errorf("expected nil for an unknown playlist, got %+v", playlist)
		}
	})

	t.Run("no result set yields nil", func(t *testing.T) {
		source := &tu.FakeSource{}

		if playlist := New(source, discard()).Playlist(7); playlist != nil {
			t.Errorf("expected nil without a result set, got %+v", playlist)
		}
	})
}

func TestNewDefaultsLogger(t *testing.T) {
	s := New(&tu.FakeSource{}, nil)
	if s.logger == nil {
		t.Fatal("expected a fallback logger")
	}

	// Must not panic when logging through the fallback.
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)
	if songs := s.Songs(); len(songs) != 0 {
		t.Errorf("expected no songs, got %d", len(songs))
	}
}
