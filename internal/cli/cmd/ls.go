package cmd

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	flagPage   int
	flagLimit  int
	flagSearch string
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the catalogue",
	Long: `List catalogue files, newest first. The catalogue is public, so no
login is needed.

  stlctl ls                    First page
  stlctl ls --page 2           Second page
  stlctl ls --search gear      Files whose name contains "gear"
  stlctl ls --limit 20         Ask for 20 per page (see "stlctl config")

Servers ignore --limit unless CATALOGUE_ALLOW_CLIENT_LIMIT is enabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if flagPage > 0 {
			params.Set("page", strconv.Itoa(flagPage))
		}
		limit := cfg.PageSize
		if cmd.Flags().Changed("limit") {
			limit = flagLimit
		}
		if limit > 0 {
			params.Set("limit", strconv.Itoa(limit))
		}
		if flagSearch != "" {
			params.Set("search", flagSearch)
		}

		var resp api.Response[api.CataloguePage]
		if err := apiClient.Get("/files", params, &resp); err != nil {
			return fmt.Errorf("listing files: %w", err)
		}

		if flagJSON {
			output.JSON(cmd.OutOrStdout(), resp.Data)
			return nil
		}
		output.FileTable(cmd.OutOrStdout(), resp.Data)
		return nil
	},
}

func init() {
	lsCmd.Flags().IntVar(&flagPage, "page", 1, "Page number")
	lsCmd.Flags().IntVar(&flagLimit, "limit", 0, "Files per page (default: configured page size, else the server's)")
	lsCmd.Flags().StringVar(&flagSearch, "search", "", "Case-insensitive name filter")
	rootCmd.AddCommand(lsCmd)
}
