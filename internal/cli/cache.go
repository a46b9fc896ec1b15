package cli

import (
	"fmt"

	"github.com/ppiankov/ducky/internal/cache"
	"github.com/ppiankov/ducky/internal/model"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached knowledge-service responses",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	Long: `Clear empties the response cache. Only the disk layer (cache.disk_dir)
outlives a run, so there is nothing to clear when it is not configured.

Use --refresh on ask, batch or chat to replace single entries instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig().Cache
		cleared, err := clearCache(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !cleared {
			fmt.Fprintln(out, "No disk cache configured (set cache.disk_dir); nothing to clear")
			return nil
		}
		fmt.Fprintf(out, "✓ Cleared cache: %s\n", cfg.DiskDir)
		return nil
	},
}

// clearCache empties the configured cache. It reports false when no
// persistent layer is configured.
func clearCache(cfg model.CacheConfig) (bool, error) {
	if cfg.DiskDir == "" {
		return false, nil
	}

	cfg.Enabled = true
	if err := cache.New(cfg).Clear(); err != nil {
		return false, fmt.Errorf("clear cache: %w", err)
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
