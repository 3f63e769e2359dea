package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/relmap-labs/relmap/internal/config"
	"github.com/relmap-labs/relmap/internal/discovery"
	"github.com/relmap-labs/relmap/internal/tracer"
	"github.com/relmap-labs/relmap/pkg/core"
)

// newTraceCmd creates the trace command.
func newTraceCmd() *cobra.Command {
	var sqlFiles []string

	cmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Trace the database relations of a source file",
		Long: `Trace extracts the SQL queries embedded in a source file, discovers
the SQL artifacts that belong to it, and emits a relation map linking
code queries, file queries and schema tables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			rm, err := traceFile(cmd, cfg, args[0], sqlFiles)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), cfg.Output, rm)
		},
	}

	cmd.Flags().StringArrayVar(&sqlFiles, "sql-file", nil,
		"SQL file to include (repeatable; bypasses discovery)")

	return cmd
}

// traceFile runs the full pipeline for a single source file. An
// explicit SQL file list bypasses discovery; otherwise artifacts are
// discovered only when the file contains database code.
func traceFile(cmd *cobra.Command, cfg *config.Config, path string, explicit []string) (*core.RelationMap, error) {
	logger := config.GetLogger(cmd.Context())

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	code := string(data)

	files := explicit
	if len(files) == 0 {
		if discovery.HasDatabaseCode(code) {
			d := discovery.NewDiscoverer(discovery.Config{
				Logger:    logger,
				DirNames:  cfg.SQLDirNames,
				FileGlobs: cfg.SQLFileGlobs,
			})
			files = d.Discover(abs, cfg.ProjectRoot)
		} else {
			logger.Debug("no database code detected, skipping discovery", "file", abs)
		}
	}

	b := tracer.NewBuilder(tracer.Config{
		Logger:         logger,
		MaxQueryLength: cfg.MaxQueryLength,
	})
	return b.Build(code, files), nil
}
