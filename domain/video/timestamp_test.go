package video

import (
	"math"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Timestamp
		wantErr bool
		errMsg  string
	}{
		{
			name:  "full HH:MM:SS",
			input: "01:30:45",
			want:  Timestamp{Hours: 1, Minutes: 30, Seconds: 45},
		},
		{
			name:  "all zeros",
			input: "00:00:00",
			want:  Timestamp{},
		},
		{
			name:  "MM:SS form",
			input: "02:30",
			want:  Timestamp{Minutes: 2, Seconds: 30},
		},
		{
			name:  "plain seconds",
			input: "90",
			want:  Timestamp{Minutes: 1, Seconds: 30},
		},
		{
			name:  "plain fractional seconds",
			input: "12.5",
			want:  Timestamp{Seconds: 12, Millis: 500},
		},
		{
			name:  "fractional seconds in colon form",
			input: "00:01:02.500",
			want:  Timestamp{Minutes: 1, Seconds: 2, Millis: 500},
		},
		{
			name:  "single digit fields",
			input: "1:2:3",
			want:  Timestamp{Hours: 1, Minutes: 2, Seconds: 3},
		},
		{
			name:  "large hours value",
			input: "99:00:00",
			want:  Timestamp{Hours: 99},
		},
		{
			name:  "whitespace trimmed",
			input: " 00:00:05 ",
			want:  Timestamp{Seconds: 5},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
			errMsg:  "empty timestamp",
		},
		{
			name:    "too many fields",
			input:   "01:02:03:04",
			wantErr: true,
			errMsg:  "expected [HH:]MM:SS",
		},
		{
			name:    "wrong separator",
			input:   "01-30-45",
			wantErr: true,
			errMsg:  "invalid timestamp",
		},
		{
			name:    "negative seconds",
			input:   "-5",
			wantErr: true,
			errMsg:  "invalid timestamp",
		},
		{
			name:    "minutes too high",
			input:   "01:60:00",
			wantErr: true,
			errMsg:  "minutes must be 0-59",
		},
		{
			name:    "minutes too high in MM:SS form",
			input:   "90:30",
			wantErr: true,
			errMsg:  "minutes must be 0-59",
		},
		{
			name:    "seconds too high",
			input:   "01:30:60",
			wantErr: true,
			errMsg:  "seconds must be below 60",
		},
		{
			name:    "fractional minutes rejected",
			input:   "01:30.5:00",
			wantErr: true,
			errMsg:  "only seconds may be fractional",
		},
		{
			name:    "empty field",
			input:   "01::30",
			wantErr: true,
			errMsg:  "empty field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimestamp(%q) expected error, got nil", tt.input)
					return
				}
				if tt.errMsg != "" && !contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseTimestamp(%q) error = %v, want error containing %q", tt.input, err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimestamp_String(t *testing.T) {
	tests := []struct {
		name string
		ts   Timestamp
		want string
	}{
		{"whole seconds", Timestamp{Hours: 1, Minutes: 2, Seconds: 3}, "01:02:03"},
		{"with millis", Timestamp{Minutes: 1, Seconds: 2, Millis: 500}, "00:01:02.500"},
		{"zero", Timestamp{}, "00:00:00"},
		{"millis padded", Timestamp{Seconds: 5, Millis: 7}, "00:00:05.007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ts.String(); got != tt.want {
				t.Errorf("Timestamp.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromSeconds(t *testing.T) {
	tests := []struct {
		secs float64
		want Timestamp
	}{
		{0, Timestamp{}},
		{5, Timestamp{Seconds: 5}},
		{90.25, Timestamp{Minutes: 1, Seconds: 30, Millis: 250}},
		{3661.999, Timestamp{Hours: 1, Minutes: 1, Seconds: 1, Millis: 999}},
		{-3, Timestamp{}},
	}

	for _, tt := range tests {
		if got := FromSeconds(tt.secs); got != tt.want {
			t.Errorf("FromSeconds(%v) = %v, want %v", tt.secs, got, tt.want)
		}
	}
}

func TestTimestamp_TotalSeconds(t *testing.T) {
	ts := Timestamp{Hours: 1, Minutes: 2, Seconds: 3, Millis: 250}
	if got := ts.TotalSeconds(); math.Abs(got-3723.25) > 1e-9 {
		t.Errorf("TotalSeconds() = %v, want 3723.25", got)
	}
}

func TestTimestamp_Ordering(t *testing.T) {
	a := Timestamp{Seconds: 5}
	b := Timestamp{Seconds: 10}

	if !a.Before(b) {
		t.Error("expected 5s before 10s")
	}
	if !b.After(a) {
		t.Error("expected 10s after 5s")
	}
	if a.After(b) || b.Before(a) {
		t.Error("ordering is inconsistent")
	}
	if !(Timestamp{}).IsZero() {
		t.Error("zero timestamp should report IsZero")
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
