// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// checkCommand handles attendance reconciliation runs
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "check",
		Aliases: []string{"missing"},
		Usage:   "Find registered attendees missing from the server",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Match the roster against server members and report who is missing",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "guild",
						Aliases: []string{"g"},
						Usage:   "Guild (server) ID, defaults to config",
					},
					&cli.StringFlag{
						Name:    "roster",
						Aliases: []string{"r"},
						Usage:   "Path to the attendee roster CSV, defaults to config",
					},
					&cli.IntFlag{
						Name:    "threshold",
						Aliases: []string{"t"},
						Usage:   "Similarity threshold 0-100, defaults to config",
						Value:   -1,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Parallel matching workers",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Match against cached members instead of the API",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: text, csv, markdown or json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path for the exported report",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CheckRun,
			},
			{
				Name:  "report",
				Usage: "Full attendance listing with per-group totals",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "guild",
						Aliases: []string{"g"},
						Usage:   "Guild (server) ID, defaults to config",
					},
					&cli.StringFlag{
						Name:    "roster",
						Aliases: []string{"r"},
						Usage:   "Path to the attendee roster CSV, defaults to config",
					},
					&cli.IntFlag{
						Name:    "threshold",
						Aliases: []string{"t"},
						Usage:   "Similarity threshold 0-100, defaults to config",
						Value:   -1,
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Match against cached members instead of the API",
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
				Action: r.CheckReport,
			},
		},
	}
}

// membersCommand handles the member snapshot cache
func membersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "members",
		Usage: "Fetch and cache server members",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch all members from the server and cache them locally",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "guild",
						Aliases: []string{"g"},
						Usage:   "Guild (server) ID, defaults to config",
					},
				},
				Action: r.MembersFetch,
			},
			{
				Name:  "list",
				Usage: "List cached members for a guild",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "guild",
						Aliases: []string{"g"},
						Usage:   "Guild (server) ID, defaults to config",
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
				Action: r.MembersList,
			},
			{
				Name:  "clear",
				Usage: "Remove cached members for a guild",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "guild",
						Aliases: []string{"g"},
						Usage:   "Guild (server) ID, defaults to config",
					},
				},
				Action: r.MembersClear,
			},
		},
	}
}

// rosterCommand handles roster inspection
func rosterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "roster",
		Usage: "Inspect the attendee roster",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Parse the roster and show attendees grouped by team",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.RosterShow,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Discord authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize the OAuth2 application via browser",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Verify the configured bot token against the API",
				Action: r.AuthStatus,
			},
		},
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Scaffold a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing attendance results.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing attendance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "guild",
				Aliases: []string{"g"},
				Usage:   "Guild (server) ID, defaults to config",
			},
			&cli.StringFlag{
				Name:    "roster",
				Aliases: []string{"r"},
				Usage:   "Path to the attendee roster CSV, defaults to config",
			},
			&cli.IntFlag{
				Name:    "threshold",
				Aliases: []string{"t"},
				Usage:   "Similarity threshold 0-100, defaults to config",
				Value:   -1,
			},
		},
		Action: r.TUI,
	}
}
