package distribution

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nipunbatra/trim-convert/domain/distribution"
)

// mockDriveClient implements distribution.DriveClient for testing.
type mockDriveClient struct {
	existing       map[string]*distribution.FileInfo
	uploads        []distribution.UploadRequest
	deletedFileIDs []string
	findErr        error
	uploadErr      error
	deleteErr      error
	downloadErr    error
	downloadInfo   *distribution.FileInfo
}

func (m *mockDriveClient) ListFiles(ctx context.Context, folderID string) ([]distribution.FileInfo, error) {
	return nil, nil
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.existing[name], nil
}

func (m *mockDriveClient) Download(ctx context.Context, fileID, destDir string) (string, *distribution.FileInfo, error) {
	if m.downloadErr != nil {
		return "", nil, m.downloadErr
	}
	info := m.downloadInfo
	if info == nil {
		info = &distribution.FileInfo{ID: fileID, Name: "remote.mp4"}
	}
	localPath := filepath.Join(destDir, info.Name)
	if err := os.WriteFile(localPath, []byte("content"), 0644); err != nil {
		return "", nil, err
	}
	return localPath, info, nil
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, req)
	return &distribution.UploadResult{
		FileID:       "id-" + req.FileName,
		FileName:     req.FileName,
		ShareableURL: "https://drive.google.com/file/d/id-" + req.FileName + "/view",
		Size:         100,
	}, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedFileIDs = append(m.deletedFileIDs, fileID)
	return nil
}

func (m *mockDriveClient) UserEmail(ctx context.Context) (string, error) {
	return "user@example.com", nil
}

func writeFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestUploadService_Upload(t *testing.T) {
	mock := &mockDriveClient{}
	service := NewUploadService(mock, "folder-id", nil)

	path := writeFixture(t, t.TempDir(), "clip.mp4")

	result, err := service.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}

	if result.FileName != "clip.mp4" {
		t.Errorf("FileName = %q, want clip.mp4", result.FileName)
	}
	if len(mock.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(mock.uploads))
	}
	if mock.uploads[0].MimeType != distribution.MimeTypeMP4 {
		t.Errorf("MimeType = %q, want video/mp4", mock.uploads[0].MimeType)
	}
	if mock.uploads[0].FolderID != "folder-id" {
		t.Errorf("FolderID = %q, want folder-id", mock.uploads[0].FolderID)
	}
}

func TestUploadService_Upload_InfersAudioMimeType(t *testing.T) {
	mock := &mockDriveClient{}
	service := NewUploadService(mock, "", nil)

	path := writeFixture(t, t.TempDir(), "clip.aac")

	if _, err := service.Upload(context.Background(), path); err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}
	if mock.uploads[0].MimeType != distribution.MimeTypeAAC {
		t.Errorf("MimeType = %q, want audio/aac", mock.uploads[0].MimeType)
	}
}

func TestUploadService_Upload_MissingFile(t *testing.T) {
	service := NewUploadService(&mockDriveClient{}, "", nil)

	_, err := service.Upload(context.Background(), "/nonexistent/clip.mp4")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %v, want mention of missing file", err)
	}
}

func TestUploadService_Upload_ReplacesExisting(t *testing.T) {
	mock := &mockDriveClient{
		existing: map[string]*distribution.FileInfo{
			"clip.mp4": {ID: "old-id", Name: "clip.mp4", Size: 5 * 1024 * 1024},
		},
	}
	var out bytes.Buffer
	service := NewUploadService(mock, "folder-id", &out)

	path := writeFixture(t, t.TempDir(), "clip.mp4")

	if _, err := service.Upload(context.Background(), path); err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}

	if len(mock.deletedFileIDs) != 1 || mock.deletedFileIDs[0] != "old-id" {
		t.Errorf("deleted IDs = %v, want [old-id]", mock.deletedFileIDs)
	}
	if !strings.Contains(out.String(), "Replacing existing clip.mp4") {
		t.Errorf("output = %q, want replacement notice", out.String())
	}
}

func TestUploadService_Upload_DeleteExistingFails(t *testing.T) {
	mock := &mockDriveClient{
		existing: map[string]*distribution.FileInfo{
			"clip.mp4": {ID: "old-id", Name: "clip.mp4"},
		},
		deleteErr: errors.New("permission denied"),
	}
	service := NewUploadService(mock, "", nil)

	path := writeFixture(t, t.TempDir(), "clip.mp4")

	if _, err := service.Upload(context.Background(), path); err == nil {
		t.Error("expected error when deleting existing file fails")
	}
}

func TestUploadService_Distribute(t *testing.T) {
	mock := &mockDriveClient{}
	service := NewUploadService(mock, "folder-id", nil)

	dir := t.TempDir()
	videoPath := writeFixture(t, dir, "talk_trimmed.mp4")
	audioPath := writeFixture(t, dir, "talk_trimmed.aac")

	result, err := service.Distribute(context.Background(), videoPath, audioPath)
	if err != nil {
		t.Fatalf("Distribute() unexpected error: %v", err)
	}

	if result.VideoID != "id-talk_trimmed.mp4" {
		t.Errorf("VideoID = %q", result.VideoID)
	}
	if result.AudioID != "id-talk_trimmed.aac" {
		t.Errorf("AudioID = %q", result.AudioID)
	}
	if len(mock.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(mock.uploads))
	}
	if mock.uploads[0].MimeType != distribution.MimeTypeMP4 {
		t.Errorf("video MimeType = %q", mock.uploads[0].MimeType)
	}
	if mock.uploads[1].MimeType != distribution.MimeTypeAAC {
		t.Errorf("audio MimeType = %q", mock.uploads[1].MimeType)
	}
}

func TestUploadService_Distribute_VideoFails(t *testing.T) {
	mock := &mockDriveClient{uploadErr: errors.New("quota exceeded")}
	service := NewUploadService(mock, "", nil)

	dir := t.TempDir()
	videoPath := writeFixture(t, dir, "clip.mp4")
	audioPath := writeFixture(t, dir, "clip.aac")

	_, err := service.Distribute(context.Background(), videoPath, audioPath)
	if err == nil {
		t.Fatal("expected error when video upload fails")
	}
	if !strings.Contains(err.Error(), "video upload failed") {
		t.Errorf("error = %v, want video upload failure", err)
	}
}

func TestDownloadService_ImportFromLink(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		wantID  string
		wantErr bool
	}{
		{
			name:   "file share link",
			link:   "https://drive.google.com/file/d/1a2B3c4D5e6F7g8H9i0JkLmNoPqRsTuVw/view?usp=sharing",
			wantID: "1a2B3c4D5e6F7g8H9i0JkLmNoPqRsTuVw",
		},
		{
			name:   "open link with id parameter",
			link:   "https://drive.google.com/open?id=1a2B3c4D5e6F7g8H9i0JkLmNoPqRsTuVw",
			wantID: "1a2B3c4D5e6F7g8H9i0JkLmNoPqRsTuVw",
		},
		{
			name:   "bare file ID",
			link:   "1a2B3c4D5e6F7g8H9i0JkLmNoPqRsTuVw",
			wantID: "1a2B3c4D5e6F7g8H9i0JkLmNoPqRsTuVw",
		},
		{
			name:    "unrecognizable input",
			link:    "not a drive link",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockDriveClient{
				downloadInfo: &distribution.FileInfo{ID: tt.wantID, Name: "talk.mp4"},
			}
			destDir := t.TempDir()
			service := NewDownloadService(mock, destDir)

			localPath, info, err := service.ImportFromLink(context.Background(), tt.link)

			if tt.wantErr {
				if err == nil {
					t.Error("ImportFromLink() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ImportFromLink() unexpected error: %v", err)
			}
			if info.ID != tt.wantID {
				t.Errorf("info.ID = %q, want %q", info.ID, tt.wantID)
			}
			if localPath != filepath.Join(destDir, "talk.mp4") {
				t.Errorf("localPath = %q", localPath)
			}
		})
	}
}

func TestDownloadService_ImportFromLink_DownloadFails(t *testing.T) {
	mock := &mockDriveClient{downloadErr: errors.New("file not found")}
	service := NewDownloadService(mock, t.TempDir())

	_, _, err := service.ImportFromLink(context.Background(), "1a2B3c4D5e6F7g8H9i0JkLmNoPqRsTuVw")
	if err == nil {
		t.Error("expected error when download fails")
	}
}
