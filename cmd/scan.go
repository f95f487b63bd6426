package main

import (
	"context"
	"fmt"

	"github.com/dphans/mediadex/internal/provider"
	"github.com/dphans/mediadex/internal/scanner"
	"github.com/dphans/mediadex/internal/shared"
	"github.com/urfave/cli/v3"
)

// Songs lists every playable song in the index.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openIndex(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	scan := scanner.New(provider.NewSQLite(db), r.logger)
	songs := scan.Songs()

	limit := cmd.Int("limit")
	if limit > 0 && limit < len(songs) {
		songs = songs[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		r.writePlain("No songs in the index. Run 'mediadex index' first.\n")
		return nil
	}

	r.writePlain("Found %d songs:\n\n", len(songs))
	for i, song := range songs {
		r.writePlain("%d. %s - %s [%s]\n", i+1, song.Artist, song.Title, shared.FormatDuration(song.Duration))
		if song.Album != "" {
			r.writePlain("   Album: %s\n", song.Album)
		}
	}

	return nil
}

// Playlists lists every playlist in the index along with its songs.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openIndex(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	scan := scanner.New(provider.NewSQLite(db), r.logger)
	playlists := scan.Playlists()

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		r.writePlain("No playlists in the index.\n")
		return nil
	}

	withSongs := cmd.Bool("with-songs")

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, playlist := range playlists {
		r.writePlain("%d. %s\n", i+1, playlist.Name)
		r.writePlain("   ID: %d\n", playlist.ID)
		r.writePlain("   Songs: %d\n", len(playlist.Songs))
		if withSongs {
			for j, song := range playlist.Songs {
				r.writePlain("   %d. %s - %s\n", j+1, song.Artist, song.Title)
			}
		}
		r.writePlain("\n")
	}

	return nil
}

// PlaylistSongs lists one playlist's songs in playlist order.
func (r *Runner) PlaylistSongs(ctx context.Context, cmd *cli.Command) error {
	id := int64(cmd.Int("id"))
	if id <= 0 {
		return fmt.Errorf("%w: --id must be a positive playlist ID", shared.ErrInvalidArgument)
	}

	db, err := r.openIndex(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	scan := scanner.New(provider.NewSQLite(db), r.logger)
	songs := scan.SongsFromPlaylist(id)

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		r.writePlain("No songs found for playlist %d.\n", id)
		return nil
	}

	r.writePlain("Found %d songs:\n\n", len(songs))
	for i, song := range songs {
		r.writePlain("%d. %s - %s [%s]\n", i+1, song.Artist, song.Title, shared.FormatDuration(song.Duration))
	}

	return nil
}
