package cmd

import (
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/output"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account and what its role allows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var resp api.Response[api.User]
		if err := apiClient.Get("/users/me", nil, &resp); err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}
		me := resp.Data

		// Roles change server side; keep the cached one current.
		if me.Role != cfg.Role || me.Email != cfg.Email {
			cfg.SetSession(cfg.Token, me.Email, me.Role)
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
		}

		if flagJSON {
			output.JSON(cmd.OutOrStdout(), map[string]any{
				"user":         me,
				"server":       cfg.ServerURL,
				"capabilities": output.RoleCapabilities(me.Role),
			})
			return nil
		}
		output.UserInfo(cmd.OutOrStdout(), me)
		fmt.Fprintf(cmd.OutOrStdout(), "Server: %s\n", cfg.ServerURL)
		output.Capabilities(cmd.OutOrStdout(), me.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
