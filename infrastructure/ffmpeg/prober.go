package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nipunbatra/trim-convert/domain/video"
)

// Prober implements video.Prober using ffprobe.
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober.
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path.
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		p.ffprobePath = path
	}
}

// WithProberCommandRunner sets a custom command runner (for testing).
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based prober.
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// probeOutput mirrors the ffprobe JSON fields we read.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// packetsOutput mirrors ffprobe -show_entries packet output.
type packetsOutput struct {
	Packets []struct {
		PtsTime string `json:"pts_time"`
		Flags   string `json:"flags"`
	} `json:"packets"`
}

// Probe implements video.Prober.
func (p *Prober) Probe(ctx context.Context, path string) (*video.MediaInfo, error) {
	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &video.MediaInfo{}

	if parsed.Format.Duration != "" {
		duration, err := strconv.ParseFloat(parsed.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q in ffprobe output: %w", parsed.Format.Duration, err)
		}
		info.DurationSeconds = duration
	}

	// First stream of each type wins; ffprobe lists them in index order.
	for _, s := range parsed.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec == "" {
				info.VideoCodec = s.CodecName
			}
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = s.CodecName
			}
		}
	}

	return info, nil
}

// Keyframes implements video.Prober. Packet flags are cheaper to scan
// than decoding frames; keyframe packets carry a K flag.
func (p *Prober) Keyframes(ctx context.Context, path string) ([]float64, error) {
	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "packet=pts_time,flags",
		"-print_format", "json",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe keyframe scan failed: %w", err)
	}

	var parsed packetsOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe packet output: %w", err)
	}

	var keyframes []float64
	for _, pkt := range parsed.Packets {
		if !strings.Contains(pkt.Flags, "K") {
			continue
		}
		// Packets without a presentation timestamp report "N/A".
		ts, err := strconv.ParseFloat(pkt.PtsTime, 64)
		if err != nil {
			continue
		}
		keyframes = append(keyframes, ts)
	}

	return keyframes, nil
}

// VerifyInstalled checks that ffprobe is available.
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	_, err := p.runner.Output(ctx, p.ffprobePath, "-version")
	if err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// Ensure Prober implements video.Prober
var _ video.Prober = (*Prober)(nil)
