package format

import (
	"fmt"
	"strconv"
	"time"
)

// FormatExecutionDuration renders d in the largest unit that keeps it short:
// nanoseconds below a microsecond, microseconds or milliseconds with at most
// two decimals below a second, and time.Duration's own form (rounded to the
// millisecond) above.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < 0:
		return "-" + FormatExecutionDuration(-d)
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fractional(d.Round(10*time.Nanosecond), time.Microsecond, "µs")
	case d < time.Second:
		return fractional(d.Round(10*time.Microsecond), time.Millisecond, "ms")
	}
	return d.Round(time.Millisecond).String()
}

func fractional(d, unit time.Duration, suffix string) string {
	return strconv.FormatFloat(float64(d)/float64(unit), 'f', -1, 64) + suffix
}
