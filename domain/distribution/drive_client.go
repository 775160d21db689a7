package distribution

import (
	"context"
	"time"
)

// DriveClient defines the interface for Google Drive operations.
// This is a port that can be implemented by different infrastructure adapters.
type DriveClient interface {
	// ListFiles lists files in a folder.
	ListFiles(ctx context.Context, folderID string) ([]FileInfo, error)

	// FindFileByName returns the file with the given name in a folder,
	// or nil when no such file exists.
	FindFileByName(ctx context.Context, folderID, name string) (*FileInfo, error)

	// Download fetches a file's content into destDir, named after the
	// remote file, and returns the local path.
	Download(ctx context.Context, fileID, destDir string) (string, *FileInfo, error)

	// UploadAndShare uploads a file and grants anyone-with-link read access.
	UploadAndShare(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// DeletePermanently deletes a file permanently (bypasses trash).
	DeletePermanently(ctx context.Context, fileID string) error

	// UserEmail returns the authenticated user's email address.
	UserEmail(ctx context.Context) (string, error)
}

// FileInfo represents metadata about a file in Google Drive.
type FileInfo struct {
	ID          string
	Name        string
	MimeType    string
	Size        int64
	CreatedTime time.Time
}
