package video

import (
	"context"
	"errors"
	"testing"

	"github.com/nipunbatra/trim-convert/domain/video"
)

// mockProber serves canned media info and keyframes.
type mockProber struct {
	info          *video.MediaInfo
	keyframes     []float64
	probeErr      error
	keyframesErr  error
	keyframeCalls int
}

func (m *mockProber) Probe(ctx context.Context, path string) (*video.MediaInfo, error) {
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	return m.info, nil
}

func (m *mockProber) Keyframes(ctx context.Context, path string) ([]float64, error) {
	m.keyframeCalls++
	if m.keyframesErr != nil {
		return nil, m.keyframesErr
	}
	return m.keyframes, nil
}

// mockTrimmer records the plan it was given and marks output as created.
type mockTrimmer struct {
	plan        video.CutPlan
	outputPath  string
	shouldFail  bool
	fileChecker *mockFileChecker
}

func (m *mockTrimmer) Trim(ctx context.Context, req *video.TrimRequest, plan video.CutPlan, outputPath string) error {
	if m.shouldFail {
		return errors.New("trim failed")
	}
	m.plan = plan
	m.outputPath = outputPath
	if m.fileChecker != nil {
		m.fileChecker.existing[outputPath] = true
	}
	return nil
}

// mockExtractor records the request and marks output as created.
type mockExtractor struct {
	req         *video.AudioExtractionRequest
	outputPath  string
	shouldFail  bool
	fileChecker *mockFileChecker
}

func (m *mockExtractor) Extract(ctx context.Context, req *video.AudioExtractionRequest, outputPath string) error {
	if m.shouldFail {
		return errors.New("extract failed")
	}
	m.req = req
	m.outputPath = outputPath
	if m.fileChecker != nil {
		m.fileChecker.existing[outputPath] = true
	}
	return nil
}

// mockFileChecker simulates file existence.
type mockFileChecker struct {
	existing map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existing[path]
}

func newFixture(info *video.MediaInfo, keyframes []float64) (*ClipService, *mockProber, *mockTrimmer, *mockExtractor, *mockFileChecker) {
	checker := &mockFileChecker{existing: map[string]bool{"/videos/talk.mp4": true}}
	prober := &mockProber{info: info, keyframes: keyframes}
	trimmer := &mockTrimmer{fileChecker: checker}
	extractor := &mockExtractor{fileChecker: checker}
	svc := NewClipService(prober, trimmer, extractor, checker, 0.25, "192k")
	return svc, prober, trimmer, extractor, checker
}

func aacSource() *video.MediaInfo {
	return &video.MediaInfo{DurationSeconds: 30, VideoCodec: "h264", AudioCodec: "aac"}
}

func TestClipService_Clip_CopyAligned(t *testing.T) {
	svc, _, trimmer, extractor, _ := newFixture(aacSource(), []float64{0, 2, 4, 6, 8, 10})

	result, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4",
		EndTime:      "10",
	})
	if err != nil {
		t.Fatalf("Clip() unexpected error: %v", err)
	}

	if result.Mode != video.ModeCopy {
		t.Errorf("Mode = %q, want copy", result.Mode)
	}
	if result.VideoPath != "/out/clip.mp4" {
		t.Errorf("VideoPath = %q", result.VideoPath)
	}
	if result.AudioPath != "/out/clip.aac" {
		t.Errorf("AudioPath = %q", result.AudioPath)
	}
	if result.Snapped {
		t.Error("exact alignment must not report a snapped start")
	}
	if trimmer.plan.Mode != video.ModeCopy {
		t.Errorf("trimmer got mode %q, want copy", trimmer.plan.Mode)
	}
	if !extractor.req.CopyCodec {
		t.Error("AAC source should extract with codec copy")
	}
	if extractor.req.SourceVideoPath != "/out/clip.mp4" {
		t.Errorf("audio extracted from %q, want the trimmed clip", extractor.req.SourceVideoPath)
	}
}

func TestClipService_Clip_MisalignedFallsBackToReencode(t *testing.T) {
	svc, _, trimmer, _, _ := newFixture(aacSource(), []float64{0, 2, 4, 6, 8, 10})

	result, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "5",
		EndTime:      "10",
	})
	if err != nil {
		t.Fatalf("Clip() unexpected error: %v", err)
	}

	if result.Mode != video.ModeReencode {
		t.Errorf("Mode = %q, want reencode", result.Mode)
	}
	if trimmer.plan.Start.String() != "00:00:05" {
		t.Errorf("re-encode start = %s, want exact 00:00:05", trimmer.plan.Start)
	}
}

func TestClipService_Clip_SnapsNearKeyframe(t *testing.T) {
	svc, _, trimmer, _, _ := newFixture(aacSource(), []float64{0, 2, 4, 6, 8, 10})

	result, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4.1",
		EndTime:      "10",
	})
	if err != nil {
		t.Fatalf("Clip() unexpected error: %v", err)
	}

	if result.Mode != video.ModeCopy {
		t.Errorf("Mode = %q, want copy", result.Mode)
	}
	if !result.Snapped {
		t.Error("expected the start to snap to the nearby keyframe")
	}
	if trimmer.plan.Start.String() != "00:00:04" {
		t.Errorf("snapped start = %s, want 00:00:04", trimmer.plan.Start)
	}
}

func TestClipService_Clip_CopyModeMisalignedFails(t *testing.T) {
	svc, _, _, _, _ := newFixture(aacSource(), []float64{0, 2, 4, 6, 8, 10})

	_, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "5",
		EndTime:      "10",
		Mode:         "copy",
	})
	if !errors.Is(err, video.ErrNotAligned) {
		t.Errorf("error = %v, want ErrNotAligned", err)
	}
}

func TestClipService_Clip_CopyModeNoKeyframesFails(t *testing.T) {
	svc, _, _, _, _ := newFixture(aacSource(), nil)

	_, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4",
		EndTime:      "10",
		Mode:         "copy",
	})
	if !errors.Is(err, video.ErrNoKeyframes) {
		t.Errorf("error = %v, want ErrNoKeyframes", err)
	}
}

func TestClipService_Clip_ReencodeModeSkipsKeyframeScan(t *testing.T) {
	svc, prober, _, extractor, _ := newFixture(
		&video.MediaInfo{DurationSeconds: 30, VideoCodec: "h264", AudioCodec: "mp3"},
		[]float64{0, 2, 4},
	)

	result, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4",
		EndTime:      "10",
		Mode:         "reencode",
	})
	if err != nil {
		t.Fatalf("Clip() unexpected error: %v", err)
	}

	if prober.keyframeCalls != 0 {
		t.Errorf("keyframe scan ran %d times in reencode mode, want 0", prober.keyframeCalls)
	}
	if result.Mode != video.ModeReencode {
		t.Errorf("Mode = %q, want reencode", result.Mode)
	}
	// Re-encoded clips carry AAC audio even though the source was MP3.
	if !extractor.req.CopyCodec {
		t.Error("re-encoded clip should extract audio with codec copy")
	}
}

func TestClipService_Clip_NonAACSourceCopyModeReencodesAudio(t *testing.T) {
	svc, _, _, extractor, _ := newFixture(
		&video.MediaInfo{DurationSeconds: 30, VideoCodec: "h264", AudioCodec: "mp3"},
		[]float64{0, 2, 4, 6, 8, 10},
	)

	_, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4",
		EndTime:      "10",
	})
	if err != nil {
		t.Fatalf("Clip() unexpected error: %v", err)
	}

	if extractor.req.CopyCodec {
		t.Error("MP3 audio in a stream-copied clip must be re-encoded to AAC")
	}
	if extractor.req.Bitrate != "192k" {
		t.Errorf("Bitrate = %q, want service default 192k", extractor.req.Bitrate)
	}
}

func TestClipService_Clip_EmptyEndRunsToSourceEnd(t *testing.T) {
	svc, _, trimmer, _, _ := newFixture(aacSource(), []float64{0, 2, 4})

	result, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4",
	})
	if err != nil {
		t.Fatalf("Clip() unexpected error: %v", err)
	}

	if result.End.String() != "00:00:30" {
		t.Errorf("End = %s, want source end 00:00:30", result.End)
	}
	if trimmer.plan.End.String() != "00:00:30" {
		t.Errorf("trimmer end = %s, want source end 00:00:30", trimmer.plan.End)
	}
}

func TestClipService_Clip_EndClampedToDuration(t *testing.T) {
	svc, _, trimmer, _, _ := newFixture(aacSource(), []float64{0, 2, 4})

	result, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4",
		EndTime:      "99:00:00",
	})
	if err != nil {
		t.Fatalf("Clip() unexpected error: %v", err)
	}

	if result.End.String() != "00:00:30" {
		t.Errorf("End = %s, want clamped 00:00:30", result.End)
	}
	if trimmer.plan.End.String() != "00:00:30" {
		t.Errorf("trimmer end = %s, want clamped 00:00:30", trimmer.plan.End)
	}
}

func TestClipService_Clip_Validation(t *testing.T) {
	tests := []struct {
		name        string
		input       ClipInput
		errContains string
	}{
		{
			name: "missing source",
			input: ClipInput{
				SourcePath: "/videos/nope.mp4",
				StartTime:  "4",
				EndTime:    "10",
			},
			errContains: "does not exist",
		},
		{
			name: "bad start time",
			input: ClipInput{
				SourcePath: "/videos/talk.mp4",
				StartTime:  "abc",
				EndTime:    "10",
			},
			errContains: "invalid start time",
		},
		{
			name: "bad end time",
			input: ClipInput{
				SourcePath: "/videos/talk.mp4",
				StartTime:  "4",
				EndTime:    "xx:yy",
			},
			errContains: "invalid end time",
		},
		{
			name: "bad mode",
			input: ClipInput{
				SourcePath: "/videos/talk.mp4",
				StartTime:  "4",
				EndTime:    "10",
				Mode:       "fast",
			},
			errContains: "invalid mode",
		},
		{
			name: "start beyond duration",
			input: ClipInput{
				SourcePath: "/videos/talk.mp4",
				StartTime:  "00:10:00",
				EndTime:    "00:11:00",
			},
			errContains: "beyond the source duration",
		},
		{
			name: "start after end",
			input: ClipInput{
				SourcePath: "/videos/talk.mp4",
				StartTime:  "10",
				EndTime:    "4",
			},
			errContains: "must be after start time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _, _ := newFixture(aacSource(), []float64{0, 2, 4})
			tt.input.OutputPrefix = "/out/clip"

			_, err := svc.Clip(context.Background(), tt.input)
			if err == nil {
				t.Fatal("Clip() expected error, got nil")
			}
			if !containsStr(err.Error(), tt.errContains) {
				t.Errorf("error = %v, want containing %q", err, tt.errContains)
			}
		})
	}
}

func TestClipService_Clip_NoVideoStream(t *testing.T) {
	svc, _, _, _, _ := newFixture(&video.MediaInfo{DurationSeconds: 30, AudioCodec: "aac"}, nil)

	_, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4",
		EndTime:      "10",
	})
	if err == nil || !containsStr(err.Error(), "no video stream") {
		t.Errorf("error = %v, want no video stream", err)
	}
}

func TestClipService_Clip_MissingOutputDetected(t *testing.T) {
	checker := &mockFileChecker{existing: map[string]bool{"/videos/talk.mp4": true}}
	prober := &mockProber{info: aacSource(), keyframes: []float64{0, 2, 4}}
	// Trimmer succeeds but never creates the output file.
	trimmer := &mockTrimmer{}
	extractor := &mockExtractor{fileChecker: checker}
	svc := NewClipService(prober, trimmer, extractor, checker, 0.25, "192k")

	_, err := svc.Clip(context.Background(), ClipInput{
		SourcePath:   "/videos/talk.mp4",
		OutputPrefix: "/out/clip",
		StartTime:    "4",
		EndTime:      "10",
	})
	if err == nil || !containsStr(err.Error(), "output is missing") {
		t.Errorf("error = %v, want missing output detection", err)
	}
}

func containsStr(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
