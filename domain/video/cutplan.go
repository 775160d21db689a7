package video

import (
	"errors"
	"fmt"
	"math"
)

// DefaultKeyframeTolerance is how far (in seconds) a requested start may
// sit from the nearest keyframe and still be cut with stream copy.
const DefaultKeyframeTolerance = 0.25

// Errors callers branch on when planning a cut.
var (
	ErrNoKeyframes = errors.New("no keyframes found in video stream")
	ErrNotAligned  = errors.New("start time is not keyframe-aligned")
)

// CutMode selects how the video stream is cut.
type CutMode string

const (
	// ModeAuto stream-copies when the start aligns with a keyframe,
	// otherwise re-encodes.
	ModeAuto CutMode = "auto"
	// ModeCopy requires keyframe alignment and fails without it.
	ModeCopy CutMode = "copy"
	// ModeReencode always re-encodes for a frame-accurate cut.
	ModeReencode CutMode = "reencode"
)

// ParseCutMode parses a cut mode string.
func ParseCutMode(s string) (CutMode, error) {
	switch CutMode(s) {
	case ModeAuto, ModeCopy, ModeReencode:
		return CutMode(s), nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("invalid mode %q: expected auto, copy, or reencode", s)
}

// CutPlan is the resolved decision for a single cut: the mode ffmpeg will
// run in and the effective start, which for stream copy is snapped to the
// chosen keyframe.
type CutPlan struct {
	Mode    CutMode // ModeCopy or ModeReencode, never ModeAuto
	Start   Timestamp
	End     Timestamp
	Snapped bool // true when Start was moved to a keyframe
}

// PlanCut decides between stream copy and re-encode for the requested cut.
//
// keyframes are the video stream's keyframe timestamps in seconds, in any
// order. In auto mode the cut stream-copies when a keyframe lies within
// tolerance of start, and falls back to re-encoding otherwise (including
// when the stream reports no keyframes at all). Copy mode turns those
// fallbacks into ErrNoKeyframes / ErrNotAligned.
func PlanCut(keyframes []float64, start, end Timestamp, tolerance float64, requested CutMode) (CutPlan, error) {
	if !start.Before(end) {
		return CutPlan{}, fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	if tolerance < 0 {
		return CutPlan{}, fmt.Errorf("tolerance must not be negative")
	}

	if requested == ModeReencode {
		return CutPlan{Mode: ModeReencode, Start: start, End: end}, nil
	}

	if len(keyframes) == 0 {
		if requested == ModeCopy {
			return CutPlan{}, ErrNoKeyframes
		}
		return CutPlan{Mode: ModeReencode, Start: start, End: end}, nil
	}

	kf, dist := nearestKeyframe(keyframes, start.TotalSeconds())
	if dist <= tolerance {
		snapped := FromSeconds(kf)
		if !snapped.Before(end) {
			// Degenerate clip after snapping; cut exactly instead.
			if requested == ModeCopy {
				return CutPlan{}, ErrNotAligned
			}
			return CutPlan{Mode: ModeReencode, Start: start, End: end}, nil
		}
		return CutPlan{
			Mode:    ModeCopy,
			Start:   snapped,
			End:     end,
			Snapped: snapped != start,
		}, nil
	}

	if requested == ModeCopy {
		return CutPlan{}, fmt.Errorf("%w: nearest keyframe is %.3fs away (tolerance %.3fs)", ErrNotAligned, dist, tolerance)
	}
	return CutPlan{Mode: ModeReencode, Start: start, End: end}, nil
}

// nearestKeyframe returns the keyframe closest to t and its distance.
func nearestKeyframe(keyframes []float64, t float64) (float64, float64) {
	best := keyframes[0]
	bestDist := math.Abs(keyframes[0] - t)
	for _, kf := range keyframes[1:] {
		if d := math.Abs(kf - t); d < bestDist {
			best, bestDist = kf, d
		}
	}
	return best, bestDist
}
