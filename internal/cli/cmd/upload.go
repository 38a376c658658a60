package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/api"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	flagName        string
	flagDescription string
	flagThumbnail   string
	flagNoThumbnail bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <model.stl>",
	Short: "Upload a model to the catalogue",
	Long: `Upload an STL model with its name, description and a preview image.
Requires the manager or admin role. The server rejects uploads without a
thumbnail unless it runs with UPLOAD_REQUIRE_THUMBNAIL=false.

  stlctl upload gear.stl --name Gear --description "24 tooth spur gear" --thumbnail gear.png`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&flagName, "name", "", "Display name (default: file name without extension)")
	uploadCmd.Flags().StringVar(&flagDescription, "description", "", "Description")
	uploadCmd.Flags().StringVar(&flagThumbnail, "thumbnail", "", "Preview image (PNG, JPEG or WebP)")
	uploadCmd.Flags().BoolVar(&flagNoThumbnail, "no-thumbnail", false, "Upload without a preview image")
	uploadCmd.MarkFlagsOneRequired("thumbnail", "no-thumbnail")
	uploadCmd.MarkFlagsMutuallyExclusive("thumbnail", "no-thumbnail")
	_ = uploadCmd.MarkFlagRequired("description")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requirePrivileged("uploading"); err != nil {
		return err
	}

	localPath := args[0]
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", localPath)
	}

	name := flagName
	if name == "" {
		base := filepath.Base(localPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	fields := map[string]string{
		"name":        name,
		"description": flagDescription,
	}
	if flagThumbnail != "" {
		image, err := os.ReadFile(flagThumbnail)
		if err != nil {
			return fmt.Errorf("reading thumbnail: %w", err)
		}
		fields["thumbnail"] = api.EncodeDataURL(image)
	}

	var resp api.Response[api.File]
	if err := apiClient.Upload("/files/upload", "file", localPath, fields, &resp); err != nil {
		return fmt.Errorf("uploading %s: %w", filepath.Base(localPath), err)
	}

	if flagJSON {
		output.JSON(cmd.OutOrStdout(), resp.Data)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s) as %s\n", resp.Data.Name, output.FormatSize(resp.Data.Size), resp.Data.ID)
	return nil
}
