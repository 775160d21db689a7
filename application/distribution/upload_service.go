package distribution

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nipunbatra/trim-convert/domain/distribution"
)

// UploadService handles file upload operations to Google Drive
type UploadService struct {
	driveClient distribution.DriveClient
	folderID    string
	output      io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, folderID string, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		driveClient: client,
		folderID:    folderID,
		output:      output,
	}
}

// DistributionResult contains URLs for an uploaded video and audio pair
type DistributionResult struct {
	VideoURL  string
	VideoID   string
	VideoSize int64
	AudioURL  string
	AudioID   string
	AudioSize int64
}

// Upload uploads a single file to Google Drive and sets public sharing.
// The MIME type is inferred from the filename extension.
func (s *UploadService) Upload(ctx context.Context, filePath string) (*distribution.UploadResult, error) {
	return s.uploadAndShare(ctx, filePath, distribution.MimeTypeForFile(filePath))
}

// uploadAndShare uploads a file and sets public sharing permissions.
// An existing file with the same name in the folder is replaced.
func (s *UploadService) uploadAndShare(ctx context.Context, filePath, mimeType string) (*distribution.UploadResult, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	fileName := filepath.Base(filePath)

	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%.1f MB)\n", existing.Name, float64(existing.Size)/1024/1024)
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := distribution.UploadRequest{
		LocalPath: filePath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  mimeType,
	}

	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", fileName, err)
	}

	return result, nil
}

// Distribute uploads a trimmed video and its extracted audio track
// to Google Drive with sharing enabled.
func (s *UploadService) Distribute(ctx context.Context, videoPath, audioPath string) (*DistributionResult, error) {
	videoResult, err := s.Upload(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("video upload failed: %w", err)
	}

	audioResult, err := s.Upload(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("audio upload failed: %w", err)
	}

	return &DistributionResult{
		VideoURL:  videoResult.ShareableURL,
		VideoID:   videoResult.FileID,
		VideoSize: videoResult.Size,
		AudioURL:  audioResult.ShareableURL,
		AudioID:   audioResult.FileID,
		AudioSize: audioResult.Size,
	}, nil
}
