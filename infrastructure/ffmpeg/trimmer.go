package ffmpeg

import (
	"context"
	"fmt"

	"github.com/nipunbatra/trim-convert/domain/video"
)

// Re-encode settings for frame-accurate cuts.
const (
	videoCodec  = "libx264"
	videoCRF    = "23"
	videoPreset = "veryfast"
)

// Trimmer implements video.Trimmer using ffmpeg.
type Trimmer struct {
	ffmpegPath   string
	audioBitrate string
	runner       CommandRunner
}

// TrimmerOption is a functional option for configuring Trimmer.
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path.
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		t.ffmpegPath = path
	}
}

// WithAudioBitrate sets the audio bitrate used in re-encode cuts.
func WithAudioBitrate(bitrate string) TrimmerOption {
	return func(t *Trimmer) {
		t.audioBitrate = bitrate
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// NewTrimmer creates a new FFmpeg-based trimmer.
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath:   "ffmpeg",
		audioBitrate: video.DefaultAudioBitrate,
		runner:       &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Trim implements video.Trimmer. Stream-copy cuts seek to the plan's
// keyframe-snapped start; re-encode cuts are frame-accurate at the
// requested start. Both express the cut as a duration because -ss before
// -i shifts ffmpeg's timeline origin.
func (t *Trimmer) Trim(ctx context.Context, req *video.TrimRequest, plan video.CutPlan, outputPath string) error {
	duration := plan.End.TotalSeconds() - plan.Start.TotalSeconds()
	if duration <= 0 {
		return fmt.Errorf("cut plan has non-positive duration")
	}

	args := []string{
		"-ss", plan.Start.String(),
		"-i", req.SourcePath,
		"-t", fmt.Sprintf("%.3f", duration),
	}

	switch plan.Mode {
	case video.ModeCopy:
		args = append(args,
			"-c", "copy",
			"-avoid_negative_ts", "make_zero",
		)
	case video.ModeReencode:
		args = append(args,
			"-c:v", videoCodec,
			"-crf", videoCRF,
			"-preset", videoPreset,
			"-c:a", "aac",
			"-b:a", t.audioBitrate,
		)
	default:
		return fmt.Errorf("unresolved cut mode %q", plan.Mode)
	}

	args = append(args,
		"-y", // Overwrite output file if it exists
		outputPath,
	)

	if err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg trim failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available.
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	_, err := t.runner.Output(ctx, t.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Trimmer implements video.Trimmer
var _ video.Trimmer = (*Trimmer)(nil)
