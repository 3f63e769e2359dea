package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relmap-labs/relmap/internal/config"
	"github.com/relmap-labs/relmap/internal/discovery"
)

// detectResult is the JSON payload of the detect command.
type detectResult struct {
	File         string `json:"file"`
	DatabaseCode bool   `json:"database_code"`
}

// newDetectCmd creates the detect command.
func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Report whether a file contains database-related code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			result := detectResult{
				File:         args[0],
				DatabaseCode: discovery.DetectFile(logger, args[0]),
			}

			if cfg.Output == "table" {
				verdict := "no database code"
				if result.DatabaseCode {
					verdict = "database code detected"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", result.File, verdict)
				return nil
			}
			return renderJSON(cmd.OutOrStdout(), result)
		},
	}
}
