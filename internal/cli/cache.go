package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reebsmooth/pkg/cache"
	"github.com/matzehuels/reebsmooth/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if c.Config.Cache.Disabled {
				printInfo(w, "Cache is disabled")
				return nil
			}
			store, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "open cache")
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "cache backend cannot be cleared")
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			printSuccess(w, "Cleared %d cached entries", n)
			printDetail(w, "%s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes where results are cached.
func (c *CLI) cacheLocation() string {
	if raw := c.Config.Cache.RedisURL; raw != "" {
		if u, err := url.Parse(raw); err == nil {
			return u.Redacted()
		}
		return "redis"
	}
	dir, err := c.cacheDir()
	if err != nil {
		return "(unavailable: " + err.Error() + ")"
	}
	return dir
}
