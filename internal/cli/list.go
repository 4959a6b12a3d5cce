package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/catalog/internal/data"
	"github.com/liliang-cn/catalog/internal/validator"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records of one collection",
	}

	movies := &cobra.Command{
		Use:   "movies",
		Short: "List movies",
		Args:  cobra.NoArgs,
		RunE:  runListMovies,
	}
	movies.Flags().Int("minimum-duration", 0, "Only movies at least this many minutes long")

	texts := &cobra.Command{
		Use:   "texts",
		Short: "List texts",
		Args:  cobra.NoArgs,
		RunE:  runListTexts,
	}
	texts.Flags().String("level", "", "Filter by level: easy, medium, hard")

	cmd.AddCommand(movies, texts)

	return cmd
}

func runListMovies(cmd *cobra.Command, args []string) error {
	var filters data.MovieFilters

	v := validator.New()
	if cmd.Flags().Changed("minimum-duration") {
		filters.MinimumDuration, _ = cmd.Flags().GetInt("minimum-duration")
		data.ValidateMovieFilters(v, filters)
	}
	if !v.Valid() {
		return fmt.Errorf("invalid filters: %w", &data.ValidationError{Errors: v.Errors})
	}

	movies, err := openModels(cmd).Movies.GetAll(filters)
	if err != nil {
		return fmt.Errorf("list movies: %w", err)
	}

	return printJSON(cmd.OutOrStdout(), movies)
}

func runListTexts(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("level")
	filters := data.TextFilters{Level: level}

	v := validator.New()
	if data.ValidateTextFilters(v, filters); !v.Valid() {
		return fmt.Errorf("invalid filters: %w", &data.ValidationError{Errors: v.Errors})
	}

	texts, err := openModels(cmd).Texts.GetAll(filters)
	if err != nil {
		return fmt.Errorf("list texts: %w", err)
	}

	return printJSON(cmd.OutOrStdout(), texts)
}
