package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colorsplash/pkg/cache"
	"github.com/matzehuels/colorsplash/pkg/config"
	"github.com/matzehuels/colorsplash/pkg/offline"
)

// cacheCommand creates the offline cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline app cache",
	}

	cmd.AddCommand(c.cacheInstallCommand())
	cmd.AddCommand(c.cacheStatusCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheInstallCommand creates the "cache install" subcommand.
func (c *CLI) cacheInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Fetch every app file into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			worker, store, err := newWorker(ctx, cfg, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer store.Close()

			spin := newSpinner(ctx, fmt.Sprintf("Installing %d files...", len(worker.Manifest())))
			spin.Start()
			if err := worker.Install(ctx); err != nil {
				spin.StopWithError("Install failed")
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Installed %d files as %s", len(worker.Manifest()), worker.Version()))
			return nil
		},
	}
}

// cacheStatusCommand creates the "cache status" subcommand.
func (c *CLI) cacheStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which app files are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			worker, store, err := newWorker(ctx, cfg, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer store.Close()

			status, err := worker.Status(ctx)
			if err != nil {
				return err
			}
			printKeyValue("Version", worker.Version())
			printKeyValue("Backend", cfg.Cache.Backend)
			return renderStatus(cmd.OutOrStdout(), status)
		},
	}
}

func renderStatus(w io.Writer, status []offline.Status) error {
	rows := make([][]string, 0, len(status))
	cached := 0
	for _, st := range status {
		mark, size := "-", ""
		if st.Cached {
			cached++
			mark, size = iconSuccess, strconv.Itoa(st.Size)
		}
		rows = append(rows, []string{mark, st.Target, size})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Bytes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0 && status[row].Cached:
				return styleIconSuccess
			case col == 0:
				return StyleDim
			}
			return StyleValue
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d files cached\n", cached, len(status))
	return err
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the app files from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			worker, store, err := newWorker(ctx, cfg, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer store.Close()

			// A file cache also holds entries of older versions.
			if fc, ok := store.(*cache.FileCache); ok {
				n, err := fc.Purge()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Directory: %s", fc.Dir())
				return nil
			}

			if err := worker.Uninstall(ctx); err != nil {
				return err
			}
			printSuccess("Cleared %s", worker.Version())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := storeDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// storeDir returns where a file cache keeps its entries.
func storeDir(cfg config.Cache) (string, error) {
	if cfg.Backend != config.BackendFile {
		return "", fmt.Errorf("%s cache has no directory", cfg.Backend)
	}
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cacheDir()
}
