package cmd

import (
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/output"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show details for a catalogue file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fetchFile(args[0])
		if err != nil {
			return err
		}

		if flagJSON {
			output.JSON(cmd.OutOrStdout(), f)
			return nil
		}
		output.FileDetail(cmd.OutOrStdout(), f)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func fetchFile(id string) (api.File, error) {
	var resp api.Response[api.File]
	if err := apiClient.Get("/files/"+id, nil, &resp); err != nil {
		return api.File{}, fmt.Errorf("fetching file info: %w", err)
	}
	return resp.Data, nil
}
