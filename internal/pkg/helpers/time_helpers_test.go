package helpers

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback time.Duration
		want     time.Duration
	}{
		{"valid duration", "45m", time.Hour, 45 * time.Minute},
		{"compound duration", "1h30m", time.Hour, 90 * time.Minute},
		{"garbage uses fallback", "not-a-duration", time.Hour, time.Hour},
		{"empty uses fallback", "", 15 * time.Minute, 15 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration(tt.input, tt.fallback); got != tt.want {
				t.Errorf("ParseDuration(%q, %s) = %s, want %s", tt.input, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestFormatMeetingTime(t *testing.T) {
	at := time.Date(2025, time.September, 12, 14, 30, 0, 0, time.UTC)
	want := "September 12, 2025 at 2:30 PM"
	if got := FormatMeetingTime(at); got != want {
		t.Errorf("FormatMeetingTime(%s) = %q, want %q", at, got, want)
	}
}
