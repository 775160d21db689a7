package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	appvideo "github.com/nipunbatra/trim-convert/application/video"
	"github.com/nipunbatra/trim-convert/domain/video"
	"github.com/nipunbatra/trim-convert/infrastructure/ffmpeg"
	"github.com/nipunbatra/trim-convert/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	trimStartTime string
	trimEndTime   string
	trimOutput    string
	trimMode      string
	trimTolerance float64
)

var trimCmd = &cobra.Command{
	Use:   "trim [flags] INPUT",
	Short: "Trim a video and extract its audio track",
	Long: `Trim a video to the given start and end times and extract the audio
of the trimmed section as AAC.

When the start time lands on a keyframe (within the tolerance), the cut
is a lossless stream copy. Otherwise the section is re-encoded so the
cut is frame-accurate. Use --mode to force either behavior.

Times accept plain seconds (90, 12.5) or clock form (MM:SS, HH:MM:SS).
Omitting --end trims to the end of the video.

The output is PREFIX.mp4 and PREFIX.aac; the default prefix is the
input filename with a _trimmed suffix.

Example:
  trim-convert trim -s 00:01:30 -e 00:05:00 -o highlight talk.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().StringVarP(&trimStartTime, "start", "s", "0", "Start time of the cut")
	trimCmd.Flags().StringVarP(&trimEndTime, "end", "e", "", "End time of the cut (default: end of video)")
	trimCmd.Flags().StringVarP(&trimOutput, "output", "o", "", "Output prefix for the .mp4 and .aac files")
	trimCmd.Flags().StringVar(&trimMode, "mode", "auto", "Cut mode: auto, copy, or reencode")
	trimCmd.Flags().Float64Var(&trimTolerance, "tolerance", 0, "Keyframe snap tolerance in seconds (default from config)")
}

func runTrim(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	tolerance := trimTolerance
	if tolerance == 0 {
		tolerance = cfg.FFmpeg.KeyframeTolerance
	}

	runner := &ffmpeg.ExecCommandRunner{Log: GetLogger()}
	service := appvideo.NewClipService(
		ffmpeg.NewProber(
			ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath),
			ffmpeg.WithProberCommandRunner(runner),
		),
		ffmpeg.NewTrimmer(
			ffmpeg.WithFFmpegPath(cfg.FFmpeg.FFmpegPath),
			ffmpeg.WithAudioBitrate(cfg.FFmpeg.AudioBitrate),
			ffmpeg.WithCommandRunner(runner),
		),
		ffmpeg.NewExtractor(
			ffmpeg.WithExtractorFFmpegPath(cfg.FFmpeg.FFmpegPath),
			ffmpeg.WithExtractorCommandRunner(runner),
		),
		filesystem.NewChecker(),
		tolerance,
		cfg.FFmpeg.AudioBitrate,
	)

	return RunTrimWithDependencies(
		cmd.Context(),
		service,
		args[0],
		trimOutput,
		trimStartTime,
		trimEndTime,
		trimMode,
		os.Stdout,
	)
}

// Clipper is the part of the clip service the trim command needs.
type Clipper interface {
	Clip(ctx context.Context, input appvideo.ClipInput) (*appvideo.ClipResult, error)
}

// RunTrimWithDependencies runs the trim command with injected dependencies (for testing)
func RunTrimWithDependencies(
	ctx context.Context,
	service Clipper,
	sourcePath string,
	outputPrefix string,
	startTime string,
	endTime string,
	mode string,
	output io.Writer,
) error {
	// Verify ffmpeg is available if the service's tooling supports it
	if verifiable, ok := service.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	if endTime == "" {
		fmt.Fprintf(output, "Trimming from %s to the end of the video...\n", startTime)
	} else {
		fmt.Fprintf(output, "Trimming from %s to %s...\n", startTime, endTime)
	}

	result, err := service.Clip(ctx, appvideo.ClipInput{
		SourcePath:   sourcePath,
		OutputPrefix: outputPrefix,
		StartTime:    startTime,
		EndTime:      endTime,
		Mode:         mode,
	})
	if err != nil {
		return err
	}

	switch {
	case result.Snapped:
		fmt.Fprintf(output, "Cut: stream copy, start snapped to keyframe at %s\n", result.EffectiveStart)
	case result.Mode == video.ModeCopy:
		fmt.Fprintf(output, "Cut: stream copy (start on keyframe)\n")
	default:
		fmt.Fprintf(output, "Cut: re-encoded (start not on a keyframe)\n")
	}

	fmt.Fprintf(output, "Created: %s\n", result.VideoPath)
	fmt.Fprintf(output, "Created: %s\n", result.AudioPath)
	return nil
}
