package cmd

import (
	"fmt"
	"strconv"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change stlctl settings",
	Long: `Without arguments, print the current settings.

  stlctl config set server https://stl.example.com
  stlctl config set page-size 20      Default --limit for "stlctl ls" (0 clears)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		if flagJSON {
			output.JSON(cmd.OutOrStdout(), map[string]any{
				"path":     path,
				"server":   cfg.ServerURL,
				"pageSize": cfg.PageSize,
				"email":    cfg.Email,
				"loggedIn": cfg.HasToken(),
			})
			return nil
		}
		output.Settings(cmd.OutOrStdout(), path, *cfg)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <server|page-size> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch key {
		case "server":
			server, err := config.NormalizeServerURL(value)
			if err != nil {
				return err
			}
			if server != cfg.ServerURL {
				cfg.ClearSession()
			}
			cfg.ServerURL = server
		case "page-size":
			size, err := strconv.Atoi(value)
			if err != nil || size < 0 || size > 100 {
				return fmt.Errorf("page-size must be a number between 0 and 100")
			}
			cfg.PageSize = size
		default:
			return fmt.Errorf("unknown setting %q (want server or page-size)", key)
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
