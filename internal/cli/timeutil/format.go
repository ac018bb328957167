// Package timeutil formats times and durations for CLI output.
package timeutil

import (
	"fmt"
	"time"
)

// LocalTimeFormat is the layout used for timestamps in `nfs4ctl stat` and
// `nfs4ctl ls -l`.
const LocalTimeFormat = "Mon Jan 2 15:04:05 2006"

// FormatElapsed renders d as "1h 2m 3s", dropping leading zero units.
// Durations under a second keep Go's notation rounded to microseconds.
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Microsecond).String()
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatLocal renders t in local time, or "-" for the zero time.
func FormatLocal(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(LocalTimeFormat)
}
