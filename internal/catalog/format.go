package catalog

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDurationRe matches the compact ISO-8601 durations the catalog returns
// (PT#H#M#S, any component optional).
var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// View count display thresholds.
const (
	million  = 1_000_000
	thousand = 1_000
)

// FormatDuration converts a compact ISO-8601 duration to display form:
// "H:MM:SS" when an hour component is present, "M:SS" otherwise. Unparseable
// input renders as "0:00".
func FormatDuration(duration string) string {
	m := isoDurationRe.FindStringSubmatch(duration)
	if m == nil {
		return "0:00"
	}

	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatViewCount renders a view count as "#.#M views", "#.#K views" or
// "# views".
func FormatViewCount(count int64) string {
	switch {
	case count >= million:
		return fmt.Sprintf("%.1fM views", float64(count)/million)
	case count >= thousand:
		return fmt.Sprintf("%.1fK views", float64(count)/thousand)
	default:
		return fmt.Sprintf("%d views", count)
	}
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
