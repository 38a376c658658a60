package cmd

import (
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/output"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts (manager or admin)",
}

var usersLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePrivileged("listing users"); err != nil {
			return err
		}

		var resp api.Response[[]api.User]
		if err := apiClient.Get("/users", nil, &resp); err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		if flagJSON {
			output.JSON(cmd.OutOrStdout(), resp.Data)
			return nil
		}
		output.UserTable(cmd.OutOrStdout(), resp.Data)
		return nil
	},
}

var usersRoleCmd = &cobra.Command{
	Use:   "role <id> <user|manager|admin>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePrivileged("changing roles"); err != nil {
			return err
		}

		var resp api.Response[api.UserEnvelope]
		if err := apiClient.Put("/users/"+args[0]+"/role", map[string]string{"role": args[1]}, &resp); err != nil {
			return fmt.Errorf("changing role: %w", err)
		}

		if flagJSON {
			output.JSON(cmd.OutOrStdout(), resp.Data.User)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", resp.Data.User.Email, resp.Data.User.Role)
		return nil
	},
}

var usersRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePrivileged("deleting users"); err != nil {
			return err
		}

		if !flagForce && !confirm(cmd, fmt.Sprintf("Delete user %s? This cannot be undone.", args[0])) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		var resp api.Response[api.Message]
		if err := apiClient.Delete("/users/"+args[0], &resp); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	usersRmCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Skip confirmation prompt")
	usersCmd.AddCommand(usersLsCmd, usersRoleCmd, usersRmCmd)
	rootCmd.AddCommand(usersCmd)
}
