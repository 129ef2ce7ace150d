package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"filmoteca/backend/go/internal/catalog_service/events"
	"filmoteca/backend/go/internal/catalog_service/store"
	kafkadb "filmoteca/backend/go/internal/database/kafka"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [fixture.yaml]",
	Short: "Import genres, actors and movies from a YAML fixture",
	Long: `Upserts every genre, actor and movie of the fixture by slug and replaces the
cast and genres of each imported movie. The related-movie cache is purged afterwards,
and a catalog.imported event is published when Kafka is enabled so that running
services purge their own caches.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}
		fixture, err := store.ParseFixture(data)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		app, err := loadApp(ctx)
		if err != nil {
			return err
		}
		stats, err := app.store.Import(ctx, fixture)
		if err != nil {
			return err
		}
		if err := app.cache.Purge(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not purge related cache: %v\n", err)
		}

		if err := publishImported(ctx, app, stats); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not publish catalog event: %v\n", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d genres, %d actors, %d movies\n", stats.Genres, stats.Actors, stats.Movies)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func publishImported(ctx context.Context, app *catalogApp, stats store.ImportStats) error {
	kafkaCfg := &app.cfg.Databases.Kafka
	if !kafkaCfg.Enabled {
		return nil
	}
	if err := kafkadb.EnsureTopic(ctx, kafkaCfg); err != nil {
		return err
	}
	publisher := events.NewPublisher(kafkadb.NewWriter(kafkaCfg), app.log)
	defer publisher.Close()
	return publisher.Publish(ctx, events.CatalogEvent{
		Type:   events.EventCatalogImported,
		Genres: stats.Genres,
		Actors: stats.Actors,
		Movies: stats.Movies,
		At:     time.Now().UTC(),
	})
}
