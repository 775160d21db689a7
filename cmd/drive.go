package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	appdist "github.com/nipunbatra/trim-convert/application/distribution"
	"github.com/nipunbatra/trim-convert/domain/distribution"
	"github.com/nipunbatra/trim-convert/infrastructure/drive"

	"github.com/spf13/cobra"
)

var (
	driveFolder    string
	driveOutputDir string
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Upload to and download from Google Drive",
	Long: `Exchange files with Google Drive.

Authentication uses OAuth: on first use a browser window asks for
consent, and the token is cached for later runs. The credentials file
(oauth_credentials.json by default) comes from a Google Cloud project
with the Drive API enabled.`,
}

var driveAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Run the OAuth flow and cache the token",
	RunE:  runDriveAuth,
}

var driveWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show which Google account is authenticated",
	RunE:  runDriveWhoami,
}

var driveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List files in a Drive folder",
	Long: `List the files in a Google Drive folder.

The folder comes from --folder (a folder share link or ID) or from the
config; when neither is set, My Drive's root is listed.`,
	Args: cobra.NoArgs,
	RunE: runDriveList,
}

var driveDownloadCmd = &cobra.Command{
	Use:   "download LINK_OR_ID",
	Short: "Download a video from a Drive share link",
	Long: `Download a file from Google Drive into the configured data directory.

Accepts a share link (https://drive.google.com/file/d/.../view), an
open?id= link, or a bare file ID.`,
	Args: cobra.ExactArgs(1),
	RunE: runDriveDownload,
}

var driveUploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload files to Drive with public sharing",
	Long: `Upload files to Google Drive and enable "anyone with the link"
read access.

The target folder comes from --folder (a folder share link or ID) or
from the config; when neither is set, files land in My Drive. An
existing Drive file with the same name in the target folder is
replaced.

Example:
  trim-convert drive upload highlight.mp4 highlight.aac`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDriveUpload,
}

func init() {
	rootCmd.AddCommand(driveCmd)
	driveCmd.AddCommand(driveAuthCmd)
	driveCmd.AddCommand(driveWhoamiCmd)
	driveCmd.AddCommand(driveListCmd)
	driveCmd.AddCommand(driveDownloadCmd)
	driveCmd.AddCommand(driveUploadCmd)

	driveCmd.PersistentFlags().StringVar(&driveFolder, "folder", "", "Drive folder link or ID (default from config)")
	driveDownloadCmd.Flags().StringVarP(&driveOutputDir, "output", "o", "", "Directory for the downloaded file (default: data directory)")
}

// newDriveClient builds an OAuth-authenticated Drive client from config.
func newDriveClient(ctx context.Context) (*drive.Client, error) {
	cfg := GetConfig()

	if _, err := os.Stat(cfg.Google.CredentialsFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("credentials file not found: %s (create an OAuth client in Google Cloud Console and download its JSON)", cfg.Google.CredentialsFile)
	}

	client, err := drive.NewClientWithOAuth(ctx, cfg.Google.CredentialsFile, cfg.Google.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Drive client: %w", err)
	}
	return client, nil
}

func resolveFolderID() string {
	if driveFolder != "" {
		// The flag takes a folder share link or a bare ID.
		if id, ok := distribution.ExtractResourceID(driveFolder); ok {
			return id
		}
		return driveFolder
	}
	return GetConfig().Google.DefaultFolderID
}

func runDriveAuth(cmd *cobra.Command, args []string) error {
	client, err := newDriveClient(cmd.Context())
	if err != nil {
		return err
	}

	email, err := client.UserEmail(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Authenticated as %s\n", email)
	fmt.Printf("Token cached in %s\n", GetConfig().Google.TokenFile)
	return nil
}

func runDriveWhoami(cmd *cobra.Command, args []string) error {
	client, err := newDriveClient(cmd.Context())
	if err != nil {
		return err
	}

	email, err := client.UserEmail(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(email)
	return nil
}

func runDriveList(cmd *cobra.Command, args []string) error {
	client, err := newDriveClient(cmd.Context())
	if err != nil {
		return err
	}

	return RunDriveListWithDependencies(cmd.Context(), client, resolveFolderID(), os.Stdout)
}

// RunDriveListWithDependencies runs the list with injected dependencies (for testing)
func RunDriveListWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	folderID string,
	output io.Writer,
) error {
	files, err := driveClient.ListFiles(ctx, folderID)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(output, "No files found")
		return nil
	}

	for _, f := range files {
		fmt.Fprintf(output, "%-44s  %8.2f MB  %s  %s\n",
			f.Name, float64(f.Size)/1024/1024, f.CreatedTime.Format("2006-01-02"), f.ID)
	}
	return nil
}

func runDriveDownload(cmd *cobra.Command, args []string) error {
	client, err := newDriveClient(cmd.Context())
	if err != nil {
		return err
	}

	destDir := driveOutputDir
	if destDir == "" {
		destDir = GetConfig().Paths.DataDirectory
	}

	return RunDriveDownloadWithDependencies(
		cmd.Context(),
		client,
		destDir,
		args[0],
		os.Stdout,
	)
}

// RunDriveDownloadWithDependencies runs the download with injected dependencies (for testing)
func RunDriveDownloadWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	destDir string,
	link string,
	output io.Writer,
) error {
	service := appdist.NewDownloadService(driveClient, destDir)

	fmt.Fprintf(output, "Downloading...\n")

	localPath, info, err := service.ImportFromLink(ctx, link)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Downloaded %s (%.2f MB)\n", info.Name, float64(info.Size)/1024/1024)
	fmt.Fprintf(output, "Saved to %s\n", localPath)
	return nil
}

func runDriveUpload(cmd *cobra.Command, args []string) error {
	client, err := newDriveClient(cmd.Context())
	if err != nil {
		return err
	}

	return RunDriveUploadWithDependencies(
		cmd.Context(),
		client,
		resolveFolderID(),
		args,
		os.Stdout,
	)
}

// RunDriveUploadWithDependencies runs the upload with injected dependencies (for testing)
func RunDriveUploadWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	folderID string,
	paths []string,
	output io.Writer,
) error {
	service := appdist.NewUploadService(driveClient, folderID, output)

	for _, path := range paths {
		fmt.Fprintf(output, "Uploading %s...\n", filepath.Base(path))
		result, err := service.Upload(ctx, path)
		if err != nil {
			return fmt.Errorf("upload of %s failed: %w", filepath.Base(path), err)
		}
		printUploadResult(output, result)
	}

	fmt.Fprintf(output, "Upload complete!\n")
	return nil
}

func printUploadResult(output io.Writer, result *distribution.UploadResult) {
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Size: %.2f MB\n", float64(result.Size)/1024/1024)
	fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	fmt.Fprintln(output)
}
