package cmd

import (
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/config"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Long: `Drop the session token. The server URL, page size and account email
stay configured, so the next "stlctl login" needs only the password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.HasToken() {
			fmt.Fprintf(cmd.OutOrStdout(), "Not logged in to %s.\n", cfg.ServerURL)
			return nil
		}

		email := cfg.ClearSession()
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		if email == "" {
			email = "session"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged out %s from %s.\n", email, cfg.ServerURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
