// Package format converts raw issue fields into display strings. All
// functions are pure: callers pass the reference time explicitly.
package format

import (
	"fmt"
	"time"
)

const dateLayout = "2 Jan 2006, 03:04 pm"

// FormatDate renders t the way the Indian English locale prints a short
// date with time, e.g. "18 Oct 2026, 02:30 pm".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

var agoBuckets = []struct {
	unit    string
	seconds int64
}{
	{"year", 31536000},
	{"month", 2592000},
	{"week", 604800},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
}

// TimeAgo returns the largest whole unit elapsed between t and now,
// e.g. "3 days ago". Anything under a minute is "Just now".
func TimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)

	for _, b := range agoBuckets {
		if n := seconds / b.seconds; n >= 1 {
			return plural(n, b.unit) + " ago"
		}
	}

	return "Just now"
}

// RelativeTime is the calendar flavoured variant: days roll into weeks
// below 30 days, months below 365 days and years after that.
func RelativeTime(t, now time.Time) string {
	secs := int64(now.Sub(t) / time.Second)
	mins := secs / 60
	hours := mins / 60
	days := hours / 24

	switch {
	case secs < 60:
		return "Just now"
	case mins < 60:
		return plural(mins, "minute") + " ago"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	case days < 7:
		return plural(days, "day") + " ago"
	case days < 30:
		return plural(days/7, "week") + " ago"
	case days < 365:
		return plural(days/30, "month") + " ago"
	default:
		return plural(days/365, "year") + " ago"
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
