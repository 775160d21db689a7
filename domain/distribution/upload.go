package distribution

import "path/filepath"

// UploadRequest contains the parameters needed to upload a file to Google Drive.
type UploadRequest struct {
	LocalPath string // Full path to the local file
	FileName  string // Target filename in Google Drive
	FolderID  string // Target folder ID; empty uploads to My Drive root
	MimeType  string // MIME type of the file
}

// UploadResult contains the result of a successful upload.
type UploadResult struct {
	FileID       string // Google Drive file ID
	FileName     string // Name of the uploaded file
	ShareableURL string // URL for sharing the file
	Size         int64  // Size of the uploaded file in bytes
}

// MIME type constants for the media formats this tool produces.
const (
	MimeTypeMP4 = "video/mp4"
	MimeTypeAAC = "audio/aac"
	MimeTypeMP3 = "audio/mpeg"

	mimeTypeDefault = "application/octet-stream"
)

// MimeTypeForFile infers the upload MIME type from a filename extension.
func MimeTypeForFile(path string) string {
	switch filepath.Ext(path) {
	case ".mp4":
		return MimeTypeMP4
	case ".aac":
		return MimeTypeAAC
	case ".mp3":
		return MimeTypeMP3
	default:
		return mimeTypeDefault
	}
}
