package video

import "context"

// Trimmer defines the interface for video trimming operations.
// This is a port that can be implemented by different infrastructure adapters.
type Trimmer interface {
	// Trim cuts the video according to the resolved plan and saves to outputPath.
	Trim(ctx context.Context, req *TrimRequest, plan CutPlan, outputPath string) error
}

// AudioExtractor defines the interface for audio extraction operations.
type AudioExtractor interface {
	// Extract pulls the audio track from a video and saves it to outputPath.
	Extract(ctx context.Context, req *AudioExtractionRequest, outputPath string) error
}

// Prober defines the interface for media inspection.
type Prober interface {
	// Probe returns the container duration and stream codecs of path.
	Probe(ctx context.Context, path string) (*MediaInfo, error)
	// Keyframes returns the keyframe timestamps (seconds) of the first
	// video stream, in presentation order.
	Keyframes(ctx context.Context, path string) ([]float64, error)
}

// FileChecker defines the interface for checking file existence.
// This is used to validate sources before trimming and outputs after.
type FileChecker interface {
	// Exists returns true if the file exists.
	Exists(path string) bool
}
