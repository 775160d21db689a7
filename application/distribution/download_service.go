package distribution

import (
	"context"
	"fmt"
	"os"

	"github.com/nipunbatra/trim-convert/domain/distribution"
)

// DownloadService fetches source videos from Google Drive by share link or ID.
type DownloadService struct {
	driveClient distribution.DriveClient
	destDir     string
}

// NewDownloadService creates a new download service. Downloaded files
// land in destDir.
func NewDownloadService(client distribution.DriveClient, destDir string) *DownloadService {
	return &DownloadService{
		driveClient: client,
		destDir:     destDir,
	}
}

// ImportFromLink resolves a Drive share link or bare file ID and downloads
// the file. It returns the local path and the remote file's metadata.
func (s *DownloadService) ImportFromLink(ctx context.Context, link string) (string, *distribution.FileInfo, error) {
	fileID, ok := distribution.ExtractResourceID(link)
	if !ok {
		return "", nil, fmt.Errorf("could not extract a file ID from %q", link)
	}

	if err := os.MkdirAll(s.destDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	localPath, info, err := s.driveClient.Download(ctx, fileID, s.destDir)
	if err != nil {
		return "", nil, err
	}

	return localPath, info, nil
}
