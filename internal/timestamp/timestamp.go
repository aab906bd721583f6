// ABOUTME: Normalizes modem-reported SMS timestamps into UTC instants.
// ABOUTME: Accepts RFC3339 plus the truncated UTC offset form some firmware emits.

package timestamp

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp is returned when a timestamp string cannot be parsed.
// On the ingestion path callers log and drop the message; on the query path
// it becomes a 400 response.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Parse converts a timestamp string into a UTC instant.
//
// Standard RFC3339 input is accepted as-is. Some modem firmware reports the
// UTC offset without minutes (e.g. "2026-01-09T08:20:13+01"); that form is
// rewritten to "+01:00" before parsing. Anything else fails with
// ErrInvalidTimestamp.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	if fixed, ok := expandShortOffset(s); ok {
		if t, err := time.Parse(time.RFC3339, fixed); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// expandShortOffset rewrites a trailing ±HH offset to ±HH:00.
func expandShortOffset(s string) (string, bool) {
	if len(s) < 3 {
		return "", false
	}
	sign := s[len(s)-3]
	if sign != '+' && sign != '-' {
		return "", false
	}
	if !isDigit(s[len(s)-2]) || !isDigit(s[len(s)-1]) {
		return "", false
	}
	return s + ":00", true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
