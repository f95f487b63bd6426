package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/dphans/mediadex/internal/indexer"
	"github.com/urfave/cli/v3"
)

// Index sweeps the library into the index, optionally watching for changes.
func (r *Runner) Index(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openIndex(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	root := r.libraryRoot(cmd)

	ix := indexer.New(db, r.logger, indexer.Options{
		Workers:    r.config.Indexer.Workers,
		BatchSize:  r.config.Indexer.BatchSize,
		RateLimit:  r.config.Indexer.RateLimit,
		Extensions: r.config.Library.Extensions,
	})

	if cmd.Bool("watch") {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		debounce := time.Duration(r.config.Indexer.WatchDebounceMS) * time.Millisecond
		r.writePlain("Watching %s (Ctrl+C to stop)\n", root)
		return ix.Watch(ctx, root, debounce)
	}

	var result *indexer.Result
	sweep := func(ctx context.Context) error {
		var err error
		result, err = ix.Sweep(ctx, root)
		return err
	}

	if cmd.Bool("quiet") {
		err = sweep(ctx)
	} else {
		err = spinner.New().Title("Indexing " + root + "...").Context(ctx).ActionWithErr(sweep).Run()
	}
	if err != nil {
		return err
	}

	r.writePlain("✓ Indexed %d songs and %d playlists from %d files in %s\n",
		result.SongsIndexed, result.PlaylistsIndexed, result.FilesSeen, result.Elapsed.Round(time.Millisecond))

	if cmd.Bool("prune") {
		pruned, err := ix.Prune(ctx)
		if err != nil {
			return err
		}
		r.writePlain("✓ Pruned %d stale entries\n", pruned)
	}

	return nil
}
