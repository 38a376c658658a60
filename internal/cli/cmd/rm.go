package cmd

import (
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/spf13/cobra"
)

var flagForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a catalogue file",
	Long: `Delete a file and its stored model and thumbnail.

  stlctl rm 550e8400-...
  stlctl rm 550e8400-... --force      Skip confirmation`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		f, err := fetchFile(args[0])
		if err != nil {
			return err
		}

		if !flagForce && !confirm(cmd, fmt.Sprintf("Delete %q? This cannot be undone.", f.Name)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		var resp api.Response[api.Message]
		if err := apiClient.Delete("/files/"+f.ID, &resp); err != nil {
			return fmt.Errorf("deleting: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", f.Name)
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(rmCmd)
}
