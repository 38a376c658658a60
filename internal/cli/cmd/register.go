package cmd

import (
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	flagFirstName string
	flagLastName  string
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account",
	Long: `Create a new account. New accounts always start with the user role.

  stlctl register ada@example.com --first-name Ada --last-name Lovelace`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := flagPassword
		if password == "" {
			var err error
			if password, err = readSecret(cmd, "Password: "); err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
		}

		body := map[string]string{
			"firstName": flagFirstName,
			"lastName":  flagLastName,
			"email":     args[0],
			"password":  password,
		}
		var resp api.Response[api.UserEnvelope]
		if err := apiClient.Post("/auth/register", body, &resp); err != nil {
			return fmt.Errorf("registering: %w", err)
		}

		if flagJSON {
			output.JSON(cmd.OutOrStdout(), resp.Data.User)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Run \"stlctl login %s\" to sign in.\n", resp.Data.User.Email, resp.Data.User.Email)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&flagFirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&flagLastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&flagPassword, "password", "", "Password (prompted when omitted)")
	_ = registerCmd.MarkFlagRequired("first-name")
	_ = registerCmd.MarkFlagRequired("last-name")
	rootCmd.AddCommand(registerCmd)
}
