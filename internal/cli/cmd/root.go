package cmd

import (
	"fmt"
	"os"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/config"
	"github.com/spf13/cobra"
)

var (
	flagJSON      bool
	flagServerURL string

	cfg       *config.Config
	apiClient *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "stlctl",
	Short: "Browse and manage an STL Library from the terminal",
	Long: `stlctl talks to an STL Library server: browse the catalogue,
upload and download models, and manage user roles.

Get started:
  stlctl login you@example.com     Authenticate with email and password
  stlctl ls --search gear          Search the catalogue
  stlctl upload gear.stl --name Gear --description "Spur gear" --thumbnail gear.png`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			server, err := config.NormalizeServerURL(flagServerURL)
			if err != nil {
				return fmt.Errorf("--server: %w", err)
			}
			// A token belongs to the server that issued it.
			if server != cfg.ServerURL {
				cfg.ClearSession()
			}
			cfg.ServerURL = server
		}
		apiClient = api.NewClient(cfg.ServerURL, cfg.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config or http://localhost:8080)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func requireAuth() error {
	if cfg == nil || !cfg.HasToken() {
		return fmt.Errorf("not authenticated with %s: run \"stlctl login\" first", serverName())
	}
	return nil
}

func serverName() string {
	if cfg == nil {
		return config.DefaultURL
	}
	return cfg.ServerURL
}

// requirePrivileged fails early when the cached role cannot pass the
// server's manager-or-admin check. An unknown role defers to the server.
func requirePrivileged(action string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	if cfg.Role == "user" {
		return fmt.Errorf("%s requires the manager or admin role (logged in as %s)", action, cfg.Email)
	}
	return nil
}
