package main

import (
	"context"

	"github.com/dphans/mediadex/internal/shared"
	"github.com/urfave/cli/v3"
)

// Init writes a starter configuration file for editing.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Created %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set library.root to your music directory\n")
	r.writePlain("2. Run 'mediadex index' to build the index\n")

	return nil
}
