package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatElapsed(t *testing.T) {
	tests := map[time.Duration]string{
		250 * time.Millisecond:                      "250ms",
		1234567 * time.Nanosecond:                   "1.235ms",
		42 * time.Second:                            "42s",
		3*time.Minute + 5*time.Second:               "3m 5s",
		2*time.Hour + 5*time.Second:                 "2h 0m 5s",
		50*time.Hour + 30*time.Minute + time.Second: "2d 2h 30m 1s",
	}
	for d, want := range tests {
		assert.Equal(t, want, FormatElapsed(d), d.String())
	}
}

func TestFormatLocal(t *testing.T) {
	assert.Equal(t, "-", FormatLocal(time.Time{}))

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, ts.Local().Format(LocalTimeFormat), FormatLocal(ts))
}
