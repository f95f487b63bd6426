package main

import (
	"context"
	"time"

	"github.com/dphans/mediadex/internal/indexer"
	"github.com/urfave/cli/v3"
)

// Status reports index counts and the most recent sweep.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openIndex(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := indexer.ReadStatus(db)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Index Status")
	r.writePlain("Songs: %d\n", status.Songs)
	r.writePlain("Playlists: %d\n", status.Playlists)

	if status.LastSweep == nil {
		r.writePlain("No sweeps recorded yet.\n")
		return nil
	}

	sweep := status.LastSweep
	started := time.UnixMilli(sweep.StartedAt).Format(time.RFC1123)
	if sweep.FinishedAt == 0 {
		r.writePlain("Last sweep: %s (did not finish)\n", started)
		return nil
	}

	r.writePlain("Last sweep: %s\n", started)
	r.writePlain("  Files seen: %d\n", sweep.FilesSeen)
	r.writePlain("  Songs indexed: %d\n", sweep.SongsIndexed)
	r.writePlain("  Playlists indexed: %d\n", sweep.PlaylistsIndexed)

	return nil
}
