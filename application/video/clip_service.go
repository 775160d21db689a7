package video

import (
	"context"
	"fmt"

	"github.com/nipunbatra/trim-convert/domain/video"
)

// ClipResult contains the artifacts and decisions of a clip operation.
type ClipResult struct {
	VideoPath       string
	AudioPath       string
	Mode            video.CutMode
	EffectiveStart  video.Timestamp
	End             video.Timestamp
	Snapped         bool
	DurationSeconds float64
}

// ClipService coordinates the probe/plan/trim/extract pipeline that turns
// a source video plus two cut points into a trimmed video and its audio.
type ClipService struct {
	prober      video.Prober
	trimmer     video.Trimmer
	extractor   video.AudioExtractor
	fileChecker video.FileChecker
	tolerance   float64
	bitrate     string
}

// NewClipService creates a new ClipService.
func NewClipService(
	prober video.Prober,
	trimmer video.Trimmer,
	extractor video.AudioExtractor,
	fileChecker video.FileChecker,
	tolerance float64,
	bitrate string,
) *ClipService {
	if tolerance <= 0 {
		tolerance = video.DefaultKeyframeTolerance
	}
	if bitrate == "" {
		bitrate = video.DefaultAudioBitrate
	}
	return &ClipService{
		prober:      prober,
		trimmer:     trimmer,
		extractor:   extractor,
		fileChecker: fileChecker,
		tolerance:   tolerance,
		bitrate:     bitrate,
	}
}

// ClipInput represents the input for a clip operation. Times accept plain
// seconds or [HH:]MM:SS with optional fractions; Mode accepts auto, copy,
// or reencode (empty means auto).
type ClipInput struct {
	SourcePath   string
	OutputPrefix string
	StartTime    string
	EndTime      string
	Mode         string
	Bitrate      string // Optional, uses service default if empty
}

// Clip runs the full pipeline and returns the produced artifact paths.
func (s *ClipService) Clip(ctx context.Context, input ClipInput) (*ClipResult, error) {
	if !s.fileChecker.Exists(input.SourcePath) {
		return nil, fmt.Errorf("source file does not exist: %s", input.SourcePath)
	}

	start, err := video.ParseTimestamp(input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	// An empty end time means "until the end of the source"; it can only
	// be resolved after probing.
	var end video.Timestamp
	if input.EndTime != "" {
		end, err = video.ParseTimestamp(input.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}
	}

	mode, err := video.ParseCutMode(input.Mode)
	if err != nil {
		return nil, err
	}

	info, err := s.prober.Probe(ctx, input.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe source: %w", err)
	}
	if !info.HasVideo() {
		return nil, fmt.Errorf("source has no video stream: %s", input.SourcePath)
	}

	if input.EndTime == "" {
		if info.DurationSeconds <= 0 {
			return nil, fmt.Errorf("end time required: source duration is unknown")
		}
		end = video.FromSeconds(info.DurationSeconds)
	}

	// Cut points must fall inside the source; the end is clamped so a
	// request past EOF yields "until the end" rather than an error.
	if info.DurationSeconds > 0 {
		if start.TotalSeconds() >= info.DurationSeconds {
			return nil, fmt.Errorf("start time %s is beyond the source duration (%.1fs)", start, info.DurationSeconds)
		}
		if end.TotalSeconds() > info.DurationSeconds {
			end = video.FromSeconds(info.DurationSeconds)
		}
	}

	req, err := video.NewTrimRequest(input.SourcePath, input.OutputPrefix, start, end)
	if err != nil {
		return nil, err
	}

	// Keyframe scanning is the expensive probe; skip it when the mode
	// forces a re-encode anyway.
	var keyframes []float64
	if mode != video.ModeReencode {
		keyframes, err = s.prober.Keyframes(ctx, input.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("failed to scan keyframes: %w", err)
		}
	}

	plan, err := video.PlanCut(keyframes, start, end, s.tolerance, mode)
	if err != nil {
		return nil, err
	}

	videoOut := req.VideoOutputPath()
	if err := s.trimmer.Trim(ctx, req, plan, videoOut); err != nil {
		return nil, err
	}

	// After a re-encode the clip's audio is AAC regardless of the source.
	copyCodec := info.AudioIsAAC() || plan.Mode == video.ModeReencode

	bitrate := input.Bitrate
	if bitrate == "" {
		bitrate = s.bitrate
	}

	audioReq, err := video.NewAudioExtractionRequest(videoOut, bitrate, copyCodec)
	if err != nil {
		return nil, err
	}

	audioOut := req.AudioOutputPath()
	if err := s.extractor.Extract(ctx, audioReq, audioOut); err != nil {
		return nil, err
	}

	// ffmpeg can exit zero without producing output when fed garbage
	// arguments; verify both artifacts before declaring success.
	if !s.fileChecker.Exists(videoOut) {
		return nil, fmt.Errorf("trim reported success but output is missing: %s", videoOut)
	}
	if !s.fileChecker.Exists(audioOut) {
		return nil, fmt.Errorf("extraction reported success but output is missing: %s", audioOut)
	}

	return &ClipResult{
		VideoPath:       videoOut,
		AudioPath:       audioOut,
		Mode:            plan.Mode,
		EffectiveStart:  plan.Start,
		End:             plan.End,
		Snapped:         plan.Snapped,
		DurationSeconds: plan.End.TotalSeconds() - plan.Start.TotalSeconds(),
	}, nil
}

// VerifyInstalled checks that the underlying ffmpeg/ffprobe tooling is
// available, for adapters that support the check.
func (s *ClipService) VerifyInstalled(ctx context.Context) error {
	tools := []interface{}{s.prober, s.trimmer, s.extractor}
	for _, tool := range tools {
		if v, ok := tool.(interface{ VerifyInstalled(context.Context) error }); ok {
			if err := v.VerifyInstalled(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Probe exposes source inspection for callers that present durations to
// the user before trimming (CLI probe command, web upload handler).
func (s *ClipService) Probe(ctx context.Context, path string) (*video.MediaInfo, error) {
	if !s.fileChecker.Exists(path) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	return s.prober.Probe(ctx, path)
}
