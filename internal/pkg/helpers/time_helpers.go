package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// meetingTimeLayout is the human-readable format used in meeting notifications,
// e.g. "September 12, 2025 at 2:30 PM".
const meetingTimeLayout = "January 2, 2006 at 3:04 PM"

// ParseDuration parses a Go duration string, falling back to the given
// default on malformed input. The fallback is logged rather than returned as
// an error because callers use it for config values that already passed
// validation.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).
			Str("value", durationStr).
			Dur("fallback", defaultDuration).
			Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// FormatMeetingTime renders a meeting timestamp for notification messages.
func FormatMeetingTime(t time.Time) string {
	return t.Format(meetingTimeLayout)
}
