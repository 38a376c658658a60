package cmd

import (
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/config"
	"github.com/spf13/cobra"
)

var flagPassword string

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Authenticate with your STL Library server",
	Long: `Log in with email and password and store the session token. The
email defaults to the account used last time.

  stlctl login ada@example.com
  stlctl login --password secret123
  stlctl --server https://stl.example.com login ada@example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := cfg.Email
	if len(args) == 1 {
		email = args[0]
	}
	if email == "" {
		return fmt.Errorf("no email given and no previous login on %s", cfg.ServerURL)
	}

	password := flagPassword
	if password == "" {
		var err error
		if password, err = readSecret(cmd, "Password: "); err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
	}

	var resp api.Response[api.LoginResponse]
	body := map[string]string{"email": email, "password": password}
	if err := apiClient.Post("/auth/login", body, &resp); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	u := resp.Data.User
	cfg.SetSession(resp.Data.Token, u.Email, u.Role)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s %s (%s, %s)\n", cfg.ServerURL, u.FirstName, u.LastName, u.Email, u.Role)
	return nil
}
