package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/musiclabel/internal/shared"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "url", config.Database.URL)

	db, err := r.openDatabase(config, true)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.URL)
	return r.writePlain("schema version %d\n", version)
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config, false)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	r.logger.Info("rolled back migration")
	return r.writePlain("schema version %d\n", version)
}

// SetupConfig writes the example configuration to the --config path, or prints it with --print.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("print") {
		return r.writePlain("%s", shared.ExampleConfig())
	}

	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	if _, err := shared.LoadConfig(path); err != nil {
		os.Remove(path)
		return err
	}

	r.logger.Info("config file created", "path", path)
	return nil
}
