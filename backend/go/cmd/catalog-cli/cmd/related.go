package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var relatedCmd = &cobra.Command{
	Use:   "related [movie-slug]",
	Short: "Show the related movies of a movie with their overlap scores",
	Long: `Ranks every movie sharing at least one actor or genre with the given movie by
the number of shared actors plus shared genres, bypassing the cache.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := loadApp(ctx)
		if err != nil {
			return err
		}
		movie, ranked, err := app.service.RankedRelated(ctx, args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Related to %s\n", movie.Name)
		rows := make([][]string, 0, len(ranked))
		for i, r := range ranked {
			rows = append(rows, []string{strconv.Itoa(i + 1), r.Item.Slug, r.Item.Name, strconv.Itoa(r.Overlap)})
		}
		return renderTable(cmd.OutOrStdout(), []string{"#", "slug", "name", "overlap"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(relatedCmd)
}
