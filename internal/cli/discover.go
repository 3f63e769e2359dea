package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/relmap-labs/relmap/internal/config"
	"github.com/relmap-labs/relmap/internal/discovery"
)

// discoverResult is the JSON payload of the discover command.
type discoverResult struct {
	File     string   `json:"file"`
	SQLFiles []string `json:"sql_files"`
}

// newDiscoverCmd creates the discover command.
func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover <file>",
		Short: "List the SQL artifacts discovered for a source file",
		Long: `Discover walks from the source file's directory up toward the project
root, collecting schema and query files from conventional database
directories along the way. Files without database code discover
nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}

			files := []string{}
			if discovery.DetectFile(logger, abs) {
				d := discovery.NewDiscoverer(discovery.Config{
					Logger:    logger,
					DirNames:  cfg.SQLDirNames,
					FileGlobs: cfg.SQLFileGlobs,
				})
				files = d.Discover(abs, cfg.ProjectRoot)
			} else {
				logger.Debug("no database code detected, nothing to discover", "file", abs)
			}

			if cfg.Output == "table" {
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				return nil
			}
			return renderJSON(cmd.OutOrStdout(), discoverResult{
				File:     args[0],
				SQLFiles: files,
			})
		},
	}
}
