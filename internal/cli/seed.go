package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/catalog/internal/data"
	"github.com/liliang-cn/catalog/internal/validator"
)

func float(f float64) *float64 { return &f }

var seedMovies = []data.Movie{
	{
		Title:       "Un meutre à vinci",
		Director:    "Mr.Choquet",
		Duration:    125,
		Budget:      float(19000000),
		Description: "Un meutre à vinci. Un supsens incroyable",
	},
	{
		Title:       "Le monstre du Lockness",
		Director:    "Gerard",
		Duration:    126,
		Budget:      float(2090000),
		Description: "Tous à l'abri",
	},
	{
		Title:       "Superman Homecoming",
		Director:    "Tony Parker",
		Duration:    150,
		Budget:      float(9000000),
		Description: "Après Spiderman Superman",
	},
}

var seedTexts = []data.Text{
	{Content: "The cat sat on the mat.", Level: data.LevelEasy},
	{Content: "Typing quickly takes practice and a steady rhythm.", Level: data.LevelMedium},
	{Content: "Sphinx of black quartz, judge my vow; pack my box with five dozen liquor jugs!", Level: data.LevelHard},
}

type seedResult struct {
	MoviesAdded   int `json:"movies_added"`
	MoviesSkipped int `json:"movies_skipped"`
	TextsAdded    int `json:"texts_added"`
	TextsSkipped  int `json:"texts_skipped"`
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo movies and texts",
		Long:  "Insert the demo records. Records that already exist are skipped, so seeding twice is harmless.",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	models := openModels(cmd)

	var res seedResult

	for i := range seedMovies {
		movie := seedMovies[i]

		v := validator.New()
		if data.ValidateMovie(v, &movie); !v.Valid() {
			return fmt.Errorf("seed movie %q: %w", movie.Title, &data.ValidationError{Errors: v.Errors})
		}

		err := models.Movies.Insert(&movie)
		switch {
		case errors.Is(err, data.ErrDuplicateRecord):
			res.MoviesSkipped++
		case err != nil:
			return fmt.Errorf("seed movie %q: %w", movie.Title, err)
		default:
			res.MoviesAdded++
		}
	}

	existing, err := models.Texts.GetAll(data.TextFilters{})
	if err != nil {
		return fmt.Errorf("seed texts: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.Content] = true
	}

	for i := range seedTexts {
		text := seedTexts[i]
		if have[text.Content] {
			res.TextsSkipped++
			continue
		}

		v := validator.New()
		if data.ValidateText(v, &text); !v.Valid() {
			return fmt.Errorf("seed text: %w", &data.ValidationError{Errors: v.Errors})
		}

		if err := models.Texts.Insert(&text); err != nil {
			return fmt.Errorf("seed text: %w", err)
		}
		res.TextsAdded++
	}

	return printJSON(cmd.OutOrStdout(), res)
}
