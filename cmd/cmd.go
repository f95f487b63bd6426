// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// initCommand writes a starter configuration file.
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Where to write the configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Init,
	}
}

// indexCommand handles library sweeps and the filesystem watcher.
func indexCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "index",
		Aliases: []string{"sweep"},
		Usage:   "Sweep the library into the index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "Library root to sweep (overrides config)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the index database (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and re-sweep when the library changes",
			},
			&cli.BoolFlag{
				Name:  "prune",
				Usage: "Drop index rows whose files no longer exist",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress the progress spinner",
			},
		},
		Action: r.Index,
	}
}

// songsCommand lists playable tracks.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"tracks"},
		Usage:   "List every playable song in the index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the index database (overrides config)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of songs to print (0 means all)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Songs,
	}
}

// playlistsCommand lists playlists with their songs.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List playlists in the index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the index database (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "with-songs",
				Usage: "Print each playlist's songs",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlists,
	}
}

// playlistCommand handles operations on a single playlist.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Operations on a single playlist",
		Commands: []*cli.Command{
			{
				Name:  "songs",
				Usage: "List a playlist's songs in playlist order",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the index database (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistSongs,
			},
		},
	}
}

// exportCommand writes a playlist to disk in a chosen format.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a playlist to CSV, JSON, Markdown or plain text",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "id",
				Usage:    "Playlist ID to export",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format (csv, json, markdown, text)",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory to write the export into",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the index database (overrides config)",
			},
		},
		Action: r.Export,
	}
}

// statusCommand reports index counts and sweep bookkeeping.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show index counts and the most recent sweep",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the index database (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Status,
	}
}
