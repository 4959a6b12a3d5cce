package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/catalog/internal/data"
)

type collectionStatus struct {
	Path    string `json:"path"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify both collection files parse",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	models := openModels(cmd)

	movies := collectionStatus{Path: models.Movies.File.Path()}
	if all, err := models.Movies.GetAll(data.MovieFilters{}); err != nil {
		movies.Error = err.Error()
	} else {
		movies.Records = len(all)
	}

	texts := collectionStatus{Path: models.Texts.File.Path()}
	if all, err := models.Texts.GetAll(data.TextFilters{}); err != nil {
		texts.Error = err.Error()
	} else {
		texts.Records = len(all)
	}

	if err := printJSON(cmd.OutOrStdout(), map[string]collectionStatus{
		"movies": movies,
		"texts":  texts,
	}); err != nil {
		return err
	}

	if movies.Error != "" || texts.Error != "" {
		return fmt.Errorf("check: %w", errors.Join(errorOrNil(movies.Error), errorOrNil(texts.Error)))
	}

	return nil
}

func errorOrNil(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}
