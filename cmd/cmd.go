// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		&cli.BoolFlag{Name: "markdown", Aliases: []string{"md"}, Usage: "Output Markdown"},
		&cli.BoolFlag{Name: "csv", Usage: "Output CSV"},
	}, extra...)
}

func qualityFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "quality",
		Aliases: []string{"q"},
		Usage:   "Quality tier: minimum, low, medium, high, lossless or hifi (default: settings.quality)",
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml template",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// loginCommand authenticates and persists the session token.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in with an arl token, a cURL command, or email and password",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "arl",
				Usage: "Session token (the arl cookie)",
			},
			&cli.StringFlag{
				Name:  "curl-file",
				Usage: "Path to a file holding a cURL command copied from browser DevTools",
			},
			&cli.StringFlag{
				Name:  "email",
				Usage: "Account email",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "Account password",
			},
		},
		Action: r.Login,
	}
}

// statusCommand reports the account behind the session.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "status",
		Aliases: []string{"whoami"},
		Usage:   "Show the logged in account and its streamable formats",
		Flags:   outputFlags(),
		Action:  r.Status,
	}
}

func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "track",
		Usage:     "Resolve a track",
		ArgsUsage: "<id|url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags:     outputFlags(qualityFlag()),
		Action:    r.Track,
	}
}

func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "album",
		Usage:     "Resolve an album",
		ArgsUsage: "<id|url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: outputFlags(
			qualityFlag(),
			&cli.BoolFlag{Name: "tracks", Aliases: []string{"t"}, Usage: "Also resolve every member track"},
		),
		Action: r.Album,
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlist",
		Usage:     "Resolve a playlist",
		ArgsUsage: "<id|url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: outputFlags(
			qualityFlag(),
			&cli.BoolFlag{Name: "tracks", Aliases: []string{"t"}, Usage: "Also resolve every member track"},
		),
		Action: r.Playlist,
	}
}

func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "artist",
		Usage:     "Resolve an artist and their discography",
		ArgsUsage: "<id|url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: outputFlags(
			&cli.BoolFlag{Name: "credited", Usage: "Include albums the artist is only credited on"},
		),
		Action: r.Artist,
	}
}

func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve whatever a catalog URL points at",
		ArgsUsage: "<url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
		Flags: outputFlags(
			qualityFlag(),
			&cli.BoolFlag{Name: "id-only", Usage: "Print only the entity type and id"},
		),
		Action: r.Resolve,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog",
		ArgsUsage: "<track|album|playlist|artist> <query>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "type"},
			&cli.StringArg{Name: "query"},
		},
		Flags: outputFlags(
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of results (default: settings.search_limit)"},
			&cli.StringFlag{Name: "ref", Usage: "Track id whose ISRC is tried before the text query"},
			&cli.BoolFlag{Name: "ui", Usage: "Pick a result to download in an interactive view"},
		),
		Action: r.Search,
	}
}

func creditsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "credits",
		Usage:     "List a track's contributors by role",
		ArgsUsage: "<id|url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags:     outputFlags(),
		Action:    r.Credits,
	}
}

func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "lyrics",
		Usage:     "Fetch a track's plain and synchronized lyrics",
		ArgsUsage: "<id|url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: outputFlags(
			&cli.StringFlag{Name: "save", Usage: "Write synchronized lyrics to this .lrc path"},
		),
		Action: r.Lyrics,
	}
}

func coverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "cover",
		Usage:     "Build a track's cover URL",
		ArgsUsage: "<id|url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: outputFlags(
			&cli.StringFlag{Name: "type", Usage: "Image type: jpg or png (default: cover.file_type)"},
			&cli.IntFlag{Name: "resolution", Usage: "Edge length in pixels (default: cover.resolution)"},
			&cli.StringFlag{Name: "compression", Usage: "high or low (default: cover.compression)"},
			&cli.StringFlag{Name: "save", Usage: "Download the image to this path"},
		),
		Action: r.Cover,
	}
}

// downloadCommand fetches and decrypts the audio for a target.
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "download",
		Aliases:   []string{"dl"},
		Usage:     "Download a track, album, playlist or artist discography",
		ArgsUsage: "<id|url>",
		Arguments: []cli.Argument{&cli.StringArg{Name: "target"}},
		Flags: outputFlags(
			qualityFlag(),
			&cli.StringFlag{Name: "type", Usage: "Entity type when the target is a bare id", Value: "track"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory (default: settings.download_dir)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent downloads (max 4)", Value: 1},
			&cli.FloatFlag{Name: "rate", Usage: "Track resolutions per second", Value: 5},
			&cli.BoolFlag{Name: "credited", Usage: "Artist targets also pull albums the artist is only credited on"},
			&cli.BoolFlag{Name: "ui", Usage: "Show an interactive progress view"},
		),
		Action: r.Download,
	}
}

// cacheCommand inspects the resolved-track cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the resolved-track cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached tracks, newest first",
				Flags: outputFlags(
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum rows (0 for all)", Value: 50},
				),
				Action: r.CacheList,
			},
			{
				Name:      "delete",
				Usage:     "Remove a track from the cache",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.CacheDelete,
			},
		},
	}
}
