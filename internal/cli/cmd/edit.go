package cmd

import (
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/output"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rename a file or change its description",
	Long: `Update a catalogue entry's metadata. Only flags that are given are sent.

  stlctl edit 550e8400-... --name "Gear v2"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		body := map[string]string{}
		if cmd.Flags().Changed("name") {
			body["name"] = flagName
		}
		if cmd.Flags().Changed("description") {
			body["description"] = flagDescription
		}
		if len(body) == 0 {
			return fmt.Errorf("nothing to change: pass --name or --description")
		}

		var resp api.Response[api.File]
		if err := apiClient.Put("/files/"+args[0], body, &resp); err != nil {
			return fmt.Errorf("updating file: %w", err)
		}

		if flagJSON {
			output.JSON(cmd.OutOrStdout(), resp.Data)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", resp.Data.Name)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&flagName, "name", "", "New display name")
	editCmd.Flags().StringVar(&flagDescription, "description", "", "New description")
	rootCmd.AddCommand(editCmd)
}
