package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nipunbatra/trim-convert/domain/video"
	"github.com/nipunbatra/trim-convert/infrastructure/ffmpeg"

	"github.com/spf13/cobra"
)

var probeKeyframes bool

var probeCmd = &cobra.Command{
	Use:   "probe [flags] INPUT",
	Short: "Show a video's duration, codecs, and keyframes",
	Long: `Inspect a video file and report its duration and stream codecs.

With --keyframes, also list the keyframe timestamps. These are the
positions where a trim can start as a lossless stream copy.

Example:
  trim-convert probe --keyframes talk.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().BoolVar(&probeKeyframes, "keyframes", false, "List keyframe timestamps")
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	prober := ffmpeg.NewProber(
		ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath),
		ffmpeg.WithProberCommandRunner(&ffmpeg.ExecCommandRunner{Log: GetLogger()}),
	)

	return RunProbeWithDependencies(cmd.Context(), prober, args[0], probeKeyframes, os.Stdout)
}

// RunProbeWithDependencies runs the probe command with injected dependencies (for testing)
func RunProbeWithDependencies(
	ctx context.Context,
	prober video.Prober,
	sourcePath string,
	listKeyframes bool,
	output io.Writer,
) error {
	info, err := prober.Probe(ctx, sourcePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "File:     %s\n", sourcePath)
	fmt.Fprintf(output, "Duration: %s (%.3fs)\n", video.FromSeconds(info.DurationSeconds), info.DurationSeconds)
	if info.HasVideo() {
		fmt.Fprintf(output, "Video:    %s\n", info.VideoCodec)
	} else {
		fmt.Fprintf(output, "Video:    none\n")
	}
	if info.HasAudio() {
		fmt.Fprintf(output, "Audio:    %s\n", info.AudioCodec)
	} else {
		fmt.Fprintf(output, "Audio:    none\n")
	}

	keyframes, err := prober.Keyframes(ctx, sourcePath)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Keyframes: %d\n", len(keyframes))

	if !listKeyframes {
		return nil
	}
	for _, kf := range keyframes {
		fmt.Fprintf(output, "  %s\n", video.FromSeconds(kf))
	}
	return nil
}
