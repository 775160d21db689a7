package video

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Timestamp represents a point in a media stream with millisecond precision.
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
	Millis  int
}

// ParseTimestamp parses a timestamp string. Accepted forms:
//
//	"90"          plain seconds
//	"12.5"        plain seconds with fraction
//	"01:30"       MM:SS
//	"01:02:03"    HH:MM:SS
//	"01:02:03.5"  any colon form with fractional seconds
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, fmt.Errorf("empty timestamp")
	}

	if !strings.Contains(s, ":") {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil || secs < 0 {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q: expected seconds or [HH:]MM:SS", s)
		}
		return FromSeconds(secs), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: expected [HH:]MM:SS", s)
	}

	// Only the last field may carry a fraction.
	var fields []float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q: empty field", s)
		}
		if i < len(parts)-1 && strings.Contains(p, ".") {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q: only seconds may be fractional", s)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q: expected [HH:]MM:SS", s)
		}
		fields = append(fields, v)
	}

	var hours, minutes, seconds float64
	if len(fields) == 2 {
		minutes, seconds = fields[0], fields[1]
	} else {
		hours, minutes, seconds = fields[0], fields[1], fields[2]
	}

	if minutes > 59 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: minutes must be 0-59", s)
	}
	if seconds >= 60 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: seconds must be below 60", s)
	}

	return FromSeconds(hours*3600 + minutes*60 + seconds), nil
}

// FromSeconds converts a duration in seconds to a Timestamp,
// rounding to millisecond precision.
func FromSeconds(secs float64) Timestamp {
	if secs < 0 {
		secs = 0
	}
	totalMillis := int(math.Round(secs * 1000))
	return Timestamp{
		Hours:   totalMillis / 3600000,
		Minutes: totalMillis / 60000 % 60,
		Seconds: totalMillis / 1000 % 60,
		Millis:  totalMillis % 1000,
	}
}

// String returns HH:MM:SS, with a .mmm suffix when sub-second
// precision is present. This is the form handed to ffmpeg.
func (t Timestamp) String() string {
	if t.Millis != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hours, t.Minutes, t.Seconds, t.Millis)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// TotalSeconds returns the timestamp as seconds.
func (t Timestamp) TotalSeconds() float64 {
	return float64(t.Hours)*3600 + float64(t.Minutes)*60 + float64(t.Seconds) + float64(t.Millis)/1000
}

// IsZero returns true if the timestamp is 00:00:00.000.
func (t Timestamp) IsZero() bool {
	return t.Hours == 0 && t.Minutes == 0 && t.Seconds == 0 && t.Millis == 0
}

// Before returns true if t is before other.
func (t Timestamp) Before(other Timestamp) bool {
	return t.TotalSeconds() < other.TotalSeconds()
}

// After returns true if t is after other.
func (t Timestamp) After(other Timestamp) bool {
	return t.TotalSeconds() > other.TotalSeconds()
}
