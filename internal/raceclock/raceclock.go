// Package raceclock normalizes the race-clock strings found on result
// pages into a canonical HH:MM:SS representation. Source data is messy:
// bare second counts, M:SS, H:MM:SS, decimal-second suffixes, stray
// characters. The parser clamps rather than rejects so one bad clock never
// aborts a batch.
package raceclock

import (
	"fmt"
	"strconv"
	"strings"
)

// Zero is the canonical zero duration returned for unparseable input.
const Zero = "00:00:00"

// Normalize converts a free-text duration into canonical HH:MM:SS.
// Sub-second precision is truncated, not rounded. Minute and second
// fields above 59 are clamped to 59. Unparseable input yields Zero.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero
	}

	// Drop everything from the decimal point onward.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}

	// Keep only digits and colons.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ':' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return Zero
	}

	parts := strings.Split(s, ":")
	var h, m, sec int
	var err error
	switch len(parts) {
	case 1:
		// Total seconds.
		total, convErr := strconv.Atoi(parts[0])
		if convErr != nil {
			return Zero
		}
		return Format(total)
	case 2:
		if m, err = strconv.Atoi(parts[0]); err != nil {
			return Zero
		}
		if sec, err = strconv.Atoi(parts[1]); err != nil {
			return Zero
		}
	case 3:
		if h, err = strconv.Atoi(parts[0]); err != nil {
			return Zero
		}
		if m, err = strconv.Atoi(parts[1]); err != nil {
			return Zero
		}
		if sec, err = strconv.Atoi(parts[2]); err != nil {
			return Zero
		}
	default:
		return Zero
	}

	if m > 59 {
		m = 59
	}
	if sec > 59 {
		sec = 59
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// Seconds returns the total seconds of a canonical or near-canonical clock
// string. Unparseable input counts as zero.
func Seconds(s string) int {
	c := Normalize(s)
	parts := strings.Split(c, ":")
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	sec, _ := strconv.Atoi(parts[2])
	return h*3600 + m*60 + sec
}

// Format renders a second count as HH:MM:SS. Negative counts clamp to Zero.
func Format(total int) string {
	if total <= 0 {
		return Zero
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
