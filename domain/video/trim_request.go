package video

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TrimRequest represents a request to cut a clip out of a source video.
// A single request yields two artifacts named from the output prefix:
// <prefix>.mp4 for the trimmed video and <prefix>.aac for its audio.
type TrimRequest struct {
	SourcePath   string
	OutputPrefix string
	Start        Timestamp
	End          Timestamp
}

// NewTrimRequest creates a TrimRequest with validation. When prefix is
// empty it defaults to "<source stem>_trimmed" next to the source file.
func NewTrimRequest(sourcePath, prefix string, start, end Timestamp) (*TrimRequest, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path is required")
	}
	if prefix == "" {
		prefix = DefaultOutputPrefix(sourcePath)
	}

	req := &TrimRequest{
		SourcePath:   sourcePath,
		OutputPrefix: prefix,
		Start:        start,
		End:          end,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks that the trim request is well-formed.
func (r *TrimRequest) Validate() error {
	if r.SourcePath == "" {
		return fmt.Errorf("source path is required")
	}
	if !r.Start.Before(r.End) {
		return fmt.Errorf("end time %s must be after start time %s", r.End, r.Start)
	}
	return nil
}

// VideoOutputPath returns the path of the trimmed video artifact.
func (r *TrimRequest) VideoOutputPath() string {
	return r.OutputPrefix + ".mp4"
}

// AudioOutputPath returns the path of the extracted audio artifact.
func (r *TrimRequest) AudioOutputPath() string {
	return r.OutputPrefix + ".aac"
}

// DefaultOutputPrefix derives the output prefix from a source path:
// the source filename without extension, suffixed "_trimmed", in the
// source's directory.
func DefaultOutputPrefix(sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(sourcePath), stem+"_trimmed")
}
