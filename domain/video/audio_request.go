package video

import "fmt"

// DefaultAudioBitrate is the default bitrate when audio must be re-encoded.
const DefaultAudioBitrate = "192k"

// AudioExtractionRequest represents a request to pull the audio track out
// of a video file into a standalone AAC file.
type AudioExtractionRequest struct {
	SourceVideoPath string
	Bitrate         string
	// CopyCodec strips the audio track without re-encoding. Only valid
	// when the source audio is already AAC.
	CopyCodec bool
}

// NewAudioExtractionRequest creates an AudioExtractionRequest with validation.
func NewAudioExtractionRequest(sourcePath, bitrate string, copyCodec bool) (*AudioExtractionRequest, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source video path is required")
	}
	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}

	return &AudioExtractionRequest{
		SourceVideoPath: sourcePath,
		Bitrate:         bitrate,
		CopyCodec:       copyCodec,
	}, nil
}
