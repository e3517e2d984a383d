// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Dotenv file loaded before reading the environment",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Override the configured log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the catalog API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.host and server.port",
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Apply pending migrations before serving",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Expose Prometheus metrics on /metrics",
				Value: true,
			},
		},
		Action: r.Serve,
	}
}

// exportCommand writes the catalog to files or stdout.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog as CSV, Markdown or plain text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, markdown, text)",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Base path for exported files, or - for stdout",
				Value:   "catalog",
			},
		},
		Action: r.Export,
	}
}

// browseCommand runs the terminal catalog browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse artists and albums in an interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file while the UI is running",
			},
		},
		Action: r.Browse,
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "print",
						Usage: "Print the configuration instead of writing it",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand groups credential helpers.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Inspect roles and credentials",
		Commands: []*cli.Command{
			{
				Name:  "roles",
				Usage: "List development tokens and their permissions",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthRoles,
			},
			{
				Name:  "verify",
				Usage: "Verify a credential with the configured strategy and print its claims",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "token",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "permission",
						Usage: "Also check that the credential grants this permission",
					},
				},
				Action: r.AuthVerify,
			},
			{
				Name:  "token",
				Usage: "Request an access token with the client credentials grant",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "client-id",
						Usage:   "OAuth client id, overrides auth.client.client_id",
						Sources: cli.EnvVars("AUTH0_CLIENT_ID"),
					},
					&cli.StringFlag{
						Name:    "client-secret",
						Usage:   "OAuth client secret, overrides auth.client.client_secret",
						Sources: cli.EnvVars("AUTH0_CLIENT_SECRET"),
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Print only the access token",
					},
				},
				Action: r.AuthToken,
			},
		},
	}
}
