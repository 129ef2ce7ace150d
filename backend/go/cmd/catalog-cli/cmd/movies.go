package cmd

import (
	"strconv"
	"strings"

	"filmoteca/backend/go/internal/catalog_service/store"
	"filmoteca/backend/go/internal/models"

	"github.com/spf13/cobra"
)

var (
	moviesGenre string
	moviesOrder string
)

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "List movies, optionally filtered by genre",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := loadApp(ctx)
		if err != nil {
			return err
		}
		page, err := app.service.ListMovies(ctx, moviesGenre, store.ParseOrder(moviesOrder))
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(page.Movies))
		for _, m := range page.Movies {
			rows = append(rows, []string{m.Slug, m.Name, year(m), genreNames(m)})
		}
		return renderTable(cmd.OutOrStdout(), []string{"slug", "name", "year", "genres"}, rows)
	},
}

func init() {
	moviesCmd.Flags().StringVarP(&moviesGenre, "genre", "g", "", "only list movies of this genre slug")
	moviesCmd.Flags().StringVar(&moviesOrder, "order", "asc", "sort by name: asc or desc")
	rootCmd.AddCommand(moviesCmd)
}

func year(m *models.Movie) string {
	if m.Year == 0 {
		return "-"
	}
	return strconv.Itoa(m.Year)
}

func genreNames(m *models.Movie) string {
	names := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}
