package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/relmap-labs/relmap/internal/config"
)

// watchDebounce coalesces editor save bursts into one re-trace.
const watchDebounce = 100 * time.Millisecond

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	var sqlFiles []string

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-trace a source file whenever it or its SQL artifacts change",
		Long: `Watch runs an initial trace, then watches the source file and its SQL
artifacts for changes and re-emits the relation map on each change.
Stops on interrupt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}

			retrace := func() error {
				rm, err := traceFile(cmd, cfg, abs, sqlFiles)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), cfg.Output, rm)
			}
			if err := retrace(); err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			// Watch directories rather than files so editors that
			// replace files on save keep triggering events.
			dirs := map[string]struct{}{filepath.Dir(abs): {}}
			for _, f := range sqlFiles {
				if fabs, err := filepath.Abs(f); err == nil {
					dirs[filepath.Dir(fabs)] = struct{}{}
				}
			}
			for dir := range dirs {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("failed to watch %s: %w", dir, err)
				}
			}

			logger.Debug("watching for changes", "file", abs)

			var debounceTimer *time.Timer
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					name, err := filepath.Abs(event.Name)
					if err != nil {
						continue
					}
					if name != abs && filepath.Ext(name) != ".sql" {
						continue
					}

					if debounceTimer != nil {
						debounceTimer.Stop()
					}
					debounceTimer = time.AfterFunc(watchDebounce, func() {
						logger.Debug("change detected", "file", name)
						if err := retrace(); err != nil {
							logger.Warn("re-trace failed", "error", err)
						}
					})
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("watcher error", "error", err)
				}
			}
		},
	}

	cmd.Flags().StringArrayVar(&sqlFiles, "sql-file", nil,
		"SQL file to include (repeatable; bypasses discovery)")

	return cmd
}
