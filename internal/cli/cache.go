package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/pkg/cache"
	"github.com/matzehuels/symgraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all locally cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}

			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo(w, "Cache is empty")
			} else {
				printSuccess(w, "Cleared %d cached entries", count)
			}
			printDetail(w, "Directory: %s", dir)

			switch c.Config.Cache.Backend {
			case config.BackendRedis:
				printWarning(w, "Redis entries expire on their own TTL and are not cleared")
			case config.BackendMongo:
				mc, err := c.mongoCache(cmd.Context())
				if err != nil {
					printWarning(w, "MongoDB cache unavailable: %v", err)
					return nil
				}
				defer mc.Close()
				n, err := mc.Clear(cmd.Context())
				if err != nil {
					return err
				}
				printSuccess(w, "Cleared %d entries from %s", n, mc.Namespace())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
