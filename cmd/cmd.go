// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// searchCommand asks the recommender for songs playable with the given chords
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "search",
		Aliases: []string{"find", "s"},
		Usage:   "Find songs ranked by how few new chords they need",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "chords",
				Aliases:  []string{"k"},
				Usage:    "Comma separated chords you know, e.g. \"C, G, Am, F\"",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Filter by artist",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Filter by song title",
			},
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Filter by genre (defaults to search.genre)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of songs to show (0 shows everything returned)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Output CSV",
			},
		},
		Action: r.Search,
	}
}

// songCommand shows a single song page
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Show chords and lyrics for a song",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "chords",
				Aliases: []string{"k"},
				Usage:   "Comma separated chords you know, highlighted in the sheet",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Plain output format instead of the styled page: txt, md, json",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON with classified lines",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the song in the web frontend",
			},
		},
		Action: r.Song,
	}
}

// rateCommand submits a star rating
func rateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rate",
		Usage: "Rate a song from 1 to 5 stars",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
			&cli.StringArg{Name: "stars"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Rate,
	}
}

// sheetCommand renders a local chord sheet without the backend
func sheetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sheet",
		Usage: "Render a local chords-and-lyrics file (use - for stdin)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "chords",
				Aliases: []string{"k"},
				Usage:   "Comma separated chords you know",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output vocabulary, chord split and classified lines as JSON",
			},
		},
		Action: r.Sheet,
	}
}

// exportCommand writes many songs to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export songs to txt, md or json files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ids",
				Usage: "Comma separated song IDs (defaults to the results of --search)",
			},
			&cli.StringFlag{
				Name:  "search",
				Usage: "Export every song returned for these chords",
			},
			&cli.StringFlag{
				Name:    "chords",
				Aliases: []string{"k"},
				Usage:   "Comma separated chords you know (defaults to --search)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: txt, md, json (defaults to export.format)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (defaults to export.output_dir)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent workers (defaults to export.workers)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the manifest as JSON",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive searching.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI",
		Action:  r.TUI,
	}
}

// configCommand handles the config file.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the file (defaults to --config)",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration as TOML",
				Action: r.ConfigShow,
			},
		},
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the recommender API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "compact",
						Usage: "Print JSON without indentation",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
