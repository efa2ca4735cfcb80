package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Default Drive file locations.
const (
	DefaultDriveBasePath    = "data/docs"
	DefaultDriveCredentials = "credentials.json"
	DefaultDriveToken       = "token.json"
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Google Drive operations",
}

var driveDownloadCmd = &cobra.Command{
	Use:   "download [file-id] [subfolder]",
	Short: "Download a Drive file",
	Long: `Download one file from Google Drive into <base-path>/<subfolder>/<name>.

The first run opens the browser consent flow with the OAuth client in the
credentials file; the token is cached and refreshed in the token file.`,
	Args: cobra.ExactArgs(2),
	RunE: runDriveDownload,
}

var (
	driveBasePath    string
	driveCredentials string
	driveToken       string
)

func init() {
	f := driveDownloadCmd.Flags()
	f.StringVar(&driveBasePath, "base-path", DefaultDriveBasePath, "Local root for downloads")
	f.StringVar(&driveCredentials, "credentials", DefaultDriveCredentials, "OAuth client credentials JSON")
	f.StringVar(&driveToken, "token", DefaultDriveToken, "Cached token JSON")

	driveCmd.AddCommand(driveDownloadCmd)
	rootCmd.AddCommand(driveCmd)
}

func runDriveDownload(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.NewDrive == nil {
		return errors.New("drive service not configured")
	}

	dl, err := s.NewDrive(cmd.Context(), driveCredentials, driveToken, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("drive authorization: %w", err)
	}

	path, err := dl.DownloadTo(cmd.Context(), args[0], args[1], driveBasePath)
	if err != nil {
		return err
	}
	cmd.Printf("Downloaded to %s\n", path)
	return nil
}
