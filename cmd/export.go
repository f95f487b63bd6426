package main

import (
	"context"
	"fmt"

	"github.com/dphans/mediadex/internal/formatter"
	"github.com/dphans/mediadex/internal/provider"
	"github.com/dphans/mediadex/internal/scanner"
	"github.com/dphans/mediadex/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export writes one playlist to disk in the chosen format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
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

	target := scan.Playlist(id)
	if target == nil {
		return fmt.Errorf("%w: id %d", shared.ErrPlaylistNotFound, id)
	}

	result, err := formatter.WriteExport(target, cmd.String("out"), cmd.String("format"), r.logger)
	if err != nil {
		return err
	}

	r.logger.Infof("playlist %v exported with %v songs", target.Name, len(target.Songs))

	r.writePlain("✓ Exported playlist %q\n", target.Name)
	for _, file := range result.Files {
		r.writePlain("  %s\n", file)
	}

	return nil
}
