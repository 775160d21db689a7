//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	appvideo "github.com/nipunbatra/trim-convert/application/video"
	"github.com/nipunbatra/trim-convert/cmd"
	"github.com/nipunbatra/trim-convert/domain/video"

	"github.com/cucumber/godog"
)

// mockProber serves the scenario's duration and keyframes
type mockProber struct {
	duration  float64
	keyframes []float64
}

func (m *mockProber) Probe(ctx context.Context, path string) (*video.MediaInfo, error) {
	return &video.MediaInfo{
		DurationSeconds: m.duration,
		VideoCodec:      "h264",
		AudioCodec:      "aac",
	}, nil
}

func (m *mockProber) Keyframes(ctx context.Context, path string) ([]float64, error) {
	return m.keyframes, nil
}

// mockTrimmer records the plan it was given and marks output as existing
type mockTrimmer struct {
	plan        video.CutPlan
	outputPath  string
	fileChecker *mockFileChecker
}

func (m *mockTrimmer) Trim(ctx context.Context, req *video.TrimRequest, plan video.CutPlan, outputPath string) error {
	m.plan = plan
	m.outputPath = outputPath
	if m.fileChecker != nil {
		m.fileChecker.existingFiles[outputPath] = true
	}
	return nil
}

// mockExtractor marks its output as existing
type mockExtractor struct {
	outputPath  string
	fileChecker *mockFileChecker
}

func (m *mockExtractor) Extract(ctx context.Context, req *video.AudioExtractionRequest, outputPath string) error {
	m.outputPath = outputPath
	if m.fileChecker != nil {
		m.fileChecker.existingFiles[outputPath] = true
	}
	return nil
}

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// trimContext holds test state for trim scenarios
type trimContext struct {
	sourcePath  string
	prober      *mockProber
	trimmer     *mockTrimmer
	extractor   *mockExtractor
	fileChecker *mockFileChecker
	output      *bytes.Buffer
	err         error
}

// SharedTrimContext is reset before each scenario via Before hook
var SharedTrimContext *trimContext

func getTrimContext() *trimContext {
	return SharedTrimContext
}

func (t *trimContext) service() *appvideo.ClipService {
	return appvideo.NewClipService(
		t.prober,
		t.trimmer,
		t.extractor,
		t.fileChecker,
		video.DefaultKeyframeTolerance,
		video.DefaultAudioBitrate,
	)
}

func (t *trimContext) run(start, end, mode string) {
	t.err = cmd.RunTrimWithDependencies(
		context.Background(),
		t.service(),
		t.sourcePath,
		"", // default output prefix
		start,
		end,
		mode,
		t.output,
	)
}

func InitializeTrimScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		fileChecker := &mockFileChecker{
			existingFiles: make(map[string]bool),
		}
		SharedTrimContext = &trimContext{
			prober:      &mockProber{},
			trimmer:     &mockTrimmer{fileChecker: fileChecker},
			extractor:   &mockExtractor{fileChecker: fileChecker},
			fileChecker: fileChecker,
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedTrimContext = nil
		return c, nil
	})

	ctx.Step(`^a source video at "([^"]*)" that is (\d+) seconds long$`, aSourceVideoAtThatIsSecondsLong)
	ctx.Step(`^no source video exists at "([^"]*)"$`, noSourceVideoExistsAt)
	ctx.Step(`^the video has keyframes at "([^"]*)"$`, theVideoHasKeyframesAt)
	ctx.Step(`^the video has no keyframes$`, theVideoHasNoKeyframes)
	ctx.Step(`^I trim the video from "([^"]*)" to "([^"]*)"$`, iTrimTheVideoFromTo)
	ctx.Step(`^I attempt to trim from "([^"]*)" to "([^"]*)"$`, iAttemptToTrimFromTo)
	ctx.Step(`^I attempt to trim from "([^"]*)" to "([^"]*)" in "([^"]*)" mode$`, iAttemptToTrimFromToInMode)
	ctx.Step(`^I attempt to trim the missing video$`, iAttemptToTrimTheMissingVideo)
	ctx.Step(`^the cut should be a stream copy$`, theCutShouldBeAStreamCopy)
	ctx.Step(`^the cut should be re-encoded$`, theCutShouldBeReencoded)
	ctx.Step(`^the cut should start at "([^"]*)"$`, theCutShouldStartAt)
	ctx.Step(`^the output file should be "([^"]*)"$`, theOutputFileShouldBe)
	ctx.Step(`^the audio file should be "([^"]*)"$`, theAudioFileShouldBe)
	ctx.Step(`^I should receive an error about the cut not being keyframe aligned$`, iShouldReceiveAnErrorAboutNotAligned)
	ctx.Step(`^I should receive an error about missing keyframes$`, iShouldReceiveAnErrorAboutMissingKeyframes)
	ctx.Step(`^I should receive an error about an invalid timestamp$`, iShouldReceiveAnErrorAboutInvalidTimestamp)
	ctx.Step(`^I should receive an error about end time before start time$`, iShouldReceiveAnErrorAboutEndTimeBeforeStartTime)
	ctx.Step(`^I should receive an error about a missing source file$`, iShouldReceiveAnErrorAboutMissingSourceFile)
}

func aSourceVideoAtThatIsSecondsLong(path string, seconds int) error {
	t := getTrimContext()
	t.sourcePath = path
	t.prober.duration = float64(seconds)
	t.fileChecker.existingFiles[path] = true
	return nil
}

func noSourceVideoExistsAt(path string) error {
	t := getTrimContext()
	t.fileChecker.existingFiles[path] = false
	return nil
}

func theVideoHasKeyframesAt(list string) error {
	t := getTrimContext()
	for _, field := range strings.Split(list, ",") {
		kf, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("bad keyframe %q: %v", field, err)
		}
		t.prober.keyframes = append(t.prober.keyframes, kf)
	}
	return nil
}

func theVideoHasNoKeyframes() error {
	getTrimContext().prober.keyframes = nil
	return nil
}

func iTrimTheVideoFromTo(start, end string) error {
	t := getTrimContext()
	t.run(start, end, "auto")
	if t.err != nil {
		return fmt.Errorf("unexpected error: %v", t.err)
	}
	return nil
}

func iAttemptToTrimFromTo(start, end string) error {
	getTrimContext().run(start, end, "auto")
	return nil
}

func iAttemptToTrimFromToInMode(start, end, mode string) error {
	getTrimContext().run(start, end, mode)
	return nil
}

func iAttemptToTrimTheMissingVideo() error {
	t := getTrimContext()
	t.sourcePath = "/videos/missing.mp4"
	t.run("00:00:04", "00:00:10", "auto")
	return nil
}

func theCutShouldBeAStreamCopy() error {
	t := getTrimContext()
	if t.trimmer.plan.Mode != video.ModeCopy {
		return fmt.Errorf("expected a stream copy, got mode %q", t.trimmer.plan.Mode)
	}
	return nil
}

func theCutShouldBeReencoded() error {
	t := getTrimContext()
	if t.trimmer.plan.Mode != video.ModeReencode {
		return fmt.Errorf("expected a re-encode, got mode %q", t.trimmer.plan.Mode)
	}
	return nil
}

func theCutShouldStartAt(expected string) error {
	t := getTrimContext()
	if t.trimmer.plan.Start.String() != expected {
		return fmt.Errorf("expected cut start %q, got %q", expected, t.trimmer.plan.Start)
	}
	return nil
}

func theOutputFileShouldBe(expected string) error {
	t := getTrimContext()
	if t.trimmer.outputPath != expected {
		return fmt.Errorf("expected output path %q, got %q", expected, t.trimmer.outputPath)
	}
	return nil
}

func theAudioFileShouldBe(expected string) error {
	t := getTrimContext()
	if t.extractor.outputPath != expected {
		return fmt.Errorf("expected audio path %q, got %q", expected, t.extractor.outputPath)
	}
	return nil
}

func iShouldReceiveAnErrorAboutNotAligned() error {
	return expectError("not keyframe-aligned")
}

func iShouldReceiveAnErrorAboutMissingKeyframes() error {
	return expectError("no keyframes")
}

func iShouldReceiveAnErrorAboutInvalidTimestamp() error {
	return expectError("invalid start time")
}

func iShouldReceiveAnErrorAboutEndTimeBeforeStartTime() error {
	return expectError("must be after start time")
}

func iShouldReceiveAnErrorAboutMissingSourceFile() error {
	return expectError("does not exist")
}

func expectError(substr string) error {
	t := getTrimContext()
	if t.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(t.err.Error(), substr) {
		return fmt.Errorf("expected error containing %q, got: %v", substr, t.err)
	}
	return nil
}
