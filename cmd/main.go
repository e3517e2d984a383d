package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/musiclabel/internal/auth"
	"github.com/desertthunder/musiclabel/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "musiclabel",
		Usage:    "Music label catalog API: artists, albums and role-based access",
		Version:  "1.0.0",
		Flags:    runner.globalFlags(),
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if authErr, ok := auth.AsError(err); ok {
			logger.Fatal("credential rejected", "code", authErr.Code, "reason", authErr.Description)
		}
		logger.Fatalf("application error: %v", err)
	}
}
