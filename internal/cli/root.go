// Package cli 实现 catalogctl 管理命令
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/catalog/internal/data"
)

const defaultDataDir = "./data"

// NewRootCmd 每次调用都构建新的命令树, 参数状态不会在两次执行之间残留
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Inspect and seed the movie and text catalog",
		Long:          "Admin tool for the JSON files behind the catalog API. Safe to run next to the server for reads; writes go through the same atomic replace.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("data-dir", "", "Data directory (default: $CATALOG_DATA_DIR or ./data)")

	root.AddCommand(newSeedCmd(), newListCmd(), newCheckCmd())

	return root
}

// getDataDir 依次取 --data-dir, $CATALOG_DATA_DIR, ./data
func getDataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	if env := os.Getenv("CATALOG_DATA_DIR"); env != "" {
		return env
	}
	return defaultDataDir
}

func openModels(cmd *cobra.Command) data.Models {
	return data.NewModels(getDataDir(cmd))
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
