package format

import (
	"fmt"
	"strconv"
	"time"
)

// FormatExecutionDuration formats how long an install or a run took.
// Sub-second durations are shown in milliseconds, durations under a minute
// in seconds with at most one decimal, and longer ones rounded to the second.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: e.g. "0s", "350ms", "1.5s", "42s", "2m30s", "1h5m0s".
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		tenths := d.Round(100 * time.Millisecond).Seconds()
		return strconv.FormatFloat(tenths, 'f', -1, 64) + "s"
	default:
		return d.Round(time.Second).String()
	}
}
