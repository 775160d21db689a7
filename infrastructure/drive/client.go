package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nipunbatra/trim-convert/domain/distribution"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// DriveService defines the interface for Google Drive API operations.
// This allows mocking the Google Drive API in tests.
type DriveService interface {
	ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error)
	GetFile(ctx context.Context, fileID string, fields string) (*drive.File, error)
	DownloadFile(ctx context.Context, fileID string, dst io.Writer) error
	UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*drive.File, error)
	CreatePermission(ctx context.Context, fileID string, permission *drive.Permission) error
	DeleteFile(ctx context.Context, fileID string) error
	GetAbout(ctx context.Context, fields string) (*drive.About, error)
}

// GoogleDriveService is the production implementation using the Google Drive API.
type GoogleDriveService struct {
	service *drive.Service
}

// ListFiles lists files matching the query.
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error) {
	r, err := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("files(" + fields + ")")).
		OrderBy(orderBy).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// GetFile fetches a file's metadata.
func (s *GoogleDriveService) GetFile(ctx context.Context, fileID string, fields string) (*drive.File, error) {
	return s.service.Files.Get(fileID).
		Fields(googleapi.Field(fields)).
		Context(ctx).
		Do()
}

// DownloadFile streams a file's content into dst.
func (s *GoogleDriveService) DownloadFile(ctx context.Context, fileID string, dst io.Writer) error {
	resp, err := s.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = io.Copy(dst, resp.Body)
	return err
}

// UploadFile uploads a local file with resumable media.
func (s *GoogleDriveService) UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*drive.File, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta := &drive.File{Name: fileName}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	call := s.service.Files.Create(meta).
		Media(f, googleapi.ContentType(mimeType)).
		Fields("id, name, size, webViewLink").
		Context(ctx)

	return call.Do()
}

// CreatePermission adds a permission to a file.
func (s *GoogleDriveService) CreatePermission(ctx context.Context, fileID string, permission *drive.Permission) error {
	_, err := s.service.Permissions.Create(fileID, permission).Context(ctx).Do()
	return err
}

// DeleteFile deletes a file permanently.
func (s *GoogleDriveService) DeleteFile(ctx context.Context, fileID string) error {
	return s.service.Files.Delete(fileID).Context(ctx).Do()
}

// GetAbout fetches account information.
func (s *GoogleDriveService) GetAbout(ctx context.Context, fields string) (*drive.About, error) {
	return s.service.About.Get().Fields(googleapi.Field(fields)).Context(ctx).Do()
}

// Client implements distribution.DriveClient using the Google Drive API.
type Client struct {
	driveService DriveService
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithDriveService sets a custom drive service (for testing).
func WithDriveService(svc DriveService) ClientOption {
	return func(c *Client) {
		c.driveService = svc
	}
}

// ListFiles implements distribution.DriveClient.
func (c *Client) ListFiles(ctx context.Context, folderID string) ([]distribution.FileInfo, error) {
	if folderID == "" {
		folderID = "root"
	}
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	files, err := c.driveService.ListFiles(ctx, query, "id, name, mimeType, size, createdTime", "name")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var result []distribution.FileInfo
	for _, f := range files {
		result = append(result, toFileInfo(f))
	}
	return result, nil
}

// FindFileByName implements distribution.DriveClient.
func (c *Client) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	parent := folderID
	if parent == "" {
		parent = "root"
	}
	query := fmt.Sprintf("'%s' in parents and name = '%s' and trashed = false", parent, escapeQueryValue(name))
	files, err := c.driveService.ListFiles(ctx, query, "id, name, mimeType, size, createdTime", "name")
	if err != nil {
		return nil, fmt.Errorf("failed to search for %s: %w", name, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	info := toFileInfo(files[0])
	return &info, nil
}

// Download implements distribution.DriveClient.
func (c *Client) Download(ctx context.Context, fileID, destDir string) (string, *distribution.FileInfo, error) {
	meta, err := c.driveService.GetFile(ctx, fileID, "id, name, size, mimeType")
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up file %s: %w", fileID, err)
	}

	localPath := filepath.Join(destDir, filepath.Base(meta.Name))
	f, err := os.Create(localPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer f.Close()

	if err := c.driveService.DownloadFile(ctx, fileID, f); err != nil {
		os.Remove(localPath)
		return "", nil, fmt.Errorf("failed to download %s: %w", meta.Name, err)
	}

	info := toFileInfo(meta)
	return localPath, &info, nil
}

// UploadAndShare implements distribution.DriveClient.
func (c *Client) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	uploaded, err := c.driveService.UploadFile(ctx, req.FileName, req.MimeType, req.FolderID, req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", req.FileName, err)
	}

	permission := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}
	if err := c.driveService.CreatePermission(ctx, uploaded.Id, permission); err != nil {
		return nil, fmt.Errorf("failed to set sharing on %s: %w", req.FileName, err)
	}

	return &distribution.UploadResult{
		FileID:       uploaded.Id,
		FileName:     uploaded.Name,
		ShareableURL: uploaded.WebViewLink,
		Size:         uploaded.Size,
	}, nil
}

// DeletePermanently implements distribution.DriveClient.
func (c *Client) DeletePermanently(ctx context.Context, fileID string) error {
	if err := c.driveService.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}

// UserEmail implements distribution.DriveClient.
func (c *Client) UserEmail(ctx context.Context) (string, error) {
	about, err := c.driveService.GetAbout(ctx, "user")
	if err != nil {
		return "", fmt.Errorf("failed to fetch account info: %w", err)
	}
	if about.User == nil {
		return "", fmt.Errorf("account info has no user")
	}
	return about.User.EmailAddress, nil
}

// escapeQueryValue escapes a string for use inside a single-quoted
// Drive query term. Backslashes must be doubled before quotes are
// escaped, per the Drive query syntax.
func escapeQueryValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// toFileInfo converts a Drive API file to the domain representation.
func toFileInfo(f *drive.File) distribution.FileInfo {
	return distribution.FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		CreatedTime: parseTime(f.CreatedTime),
	}
}

// parseTime parses a Google Drive timestamp string.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ensure Client implements distribution.DriveClient
var _ distribution.DriveClient = (*Client)(nil)
