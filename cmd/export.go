package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/musiclabel/internal/formatter"
	"github.com/desertthunder/musiclabel/internal/repositories"
)

// snapshot reads every artist and album into a [formatter.Catalog].
func snapshot(ctx context.Context, db *sqlx.DB) (*formatter.Catalog, error) {
	artists, err := repositories.NewArtistRepository(db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	albums, err := repositories.NewAlbumRepository(db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return &formatter.Catalog{Artists: artists, Albums: albums, ExportedAt: time.Now().UTC()}, nil
}

// Export writes the catalog as CSV, Markdown or plain text.
//
// With --output "-" a single document is written to stdout instead of files.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config, true)
	if err != nil {
		return err
	}
	defer db.Close()

	catalog, err := snapshot(ctx, db)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "-" {
		data, err := formatter.Render(catalog, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	files, err := formatter.WriteExport(catalog, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("exported catalog", "format", format, "artists", len(catalog.Artists), "albums", len(catalog.Albums))
	for _, file := range files {
		if err := r.writePlain("%s\n", file); err != nil {
			return err
		}
	}
	return nil
}
