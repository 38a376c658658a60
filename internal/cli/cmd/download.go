package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var flagOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a model",
	Long: `Download a catalogue model to the current directory.

  stlctl download 550e8400-...                 Saved under its original file name
  stlctl download 550e8400-... -o parts/a.stl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fetchFile(args[0])
		if err != nil {
			return err
		}

		dest := filepath.Base(f.FileName)
		if flagOutput != "" {
			dest = flagOutput
		}
		if dir := filepath.Dir(dest); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
		}

		if err := apiClient.DownloadToFile("/files/"+f.ID+"/download", dest); err != nil {
			return fmt.Errorf("downloading: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s to %s\n", f.Name, dest)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path")
	rootCmd.AddCommand(downloadCmd)
}
