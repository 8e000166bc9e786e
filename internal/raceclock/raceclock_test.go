package raceclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "01:23:45", "01:23:45"},
		{"minutes and seconds", "16:30", "00:16:30"},
		{"single digit minutes", "4:29", "00:04:29"},
		{"decimal seconds truncated", "4:29.4", "00:04:29"},
		{"decimal not rounded up", "4:29.9", "00:04:29"},
		{"bare seconds", "150", "00:02:30"},
		{"clamped minutes and seconds", "99:99", "00:59:59"},
		{"whitespace", "  18:05 ", "00:18:05"},
		{"stray characters", "1:02:03*", "01:02:03"},
		{"empty", "", "00:00:00"},
		{"garbage", "DNF", "00:00:00"},
		{"too many parts", "1:2:3:4", "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"16:30", "4:29.4", "150", "99:99", "junk"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "normalizing %q twice should be stable", s)
	}
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 990, Seconds("16:30"))
	assert.Equal(t, 3723, Seconds("1:02:03"))
	assert.Equal(t, 0, Seconds("not a time"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:16:30", Format(990))
	assert.Equal(t, "02:46:40", Format(10000))
	assert.Equal(t, "00:00:00", Format(0))
	assert.Equal(t, "00:00:00", Format(-5))
}
