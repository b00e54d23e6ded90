package format

import (
	"fmt"
	"time"
)

// FmtMM formats a millimetre dimension, dropping a trailing ".0".
func FmtMM(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d mm", int64(v))
	}
	return fmt.Sprintf("%.1f mm", v)
}

// FmtKN formats a load in kilonewtons.
func FmtKN(v float64) string {
	return fmt.Sprintf("%.1f kN", v)
}

// FmtDuration formats a duration at millisecond precision, switching to
// seconds past one second.
func FmtDuration(d time.Duration) string {
	if d >= time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// FmtConfidence formats a 0..1 confidence score.
func FmtConfidence(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
